package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/pipeline/api"
	"github.com/meikuraledutech/pipeline/client"
	"github.com/meikuraledutech/pipeline/config"
	"github.com/meikuraledutech/pipeline/postgres"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "pipeline-server",
		Short:         "Pipeline analyzer and editor session server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger := cfg.Log.Logger()
	slog.SetDefault(logger)

	opts := []api.Option{api.WithLogger(logger)}

	// ── Persistence (optional) ───────────────────────────────────────
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer pool.Close()

		store := postgres.New(pool)
		if err := store.CreateSchema(ctx); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
		opts = append(opts, api.WithStore(store))
		logger.Info("persistence enabled")
	}

	// ── Editor submissions ───────────────────────────────────────────
	analyzerURL := cfg.AnalyzerURL
	if analyzerURL == "" {
		analyzerURL = selfURL(cfg.Addr)
	}
	opts = append(opts, api.WithSubmitter(client.New(analyzerURL,
		client.WithLogger(logger),
		client.WithTimeout(cfg.SubmitTimeout),
	)))

	app := fiber.New(fiber.Config{AppName: "pipeline"})
	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{AllowOrigins: []string{cfg.CORSOrigin}}))
	api.New(opts...).Register(app)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "analyzer", analyzerURL)
		errc <- app.Listen(cfg.Addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return app.ShutdownWithContext(shutdownCtx)
}

// selfURL points the editor at this server's own analyzer.
func selfURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
