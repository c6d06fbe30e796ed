// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr" validate:"required,hostname_port"`

	// DatabaseURL enables persistence of analysed pipelines when set.
	DatabaseURL string `yaml:"database_url" validate:"omitempty,url"`

	// AnalyzerURL is where the editor session submits snapshots. Empty means
	// this server's own analyzer.
	AnalyzerURL string `yaml:"analyzer_url" validate:"omitempty,url"`

	// SubmitTimeout bounds one submission request.
	SubmitTimeout time.Duration `yaml:"submit_timeout" validate:"gte=0"`

	// CORSOrigin is the allowed browser origin.
	CORSOrigin string `yaml:"cors_origin" validate:"required"`

	Log Log `yaml:"log"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:          ":3000",
		SubmitTimeout: 10 * time.Second,
		CORSOrigin:    "*",
		Log:           Log{Level: "info", Format: "text"},
	}
}

var validate = validator.New()

// Load reads path (if non-empty), applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("PIPELINE_ADDR", &cfg.Addr)
	set("DATABASE_URL", &cfg.DatabaseURL)
	set("PIPELINE_ANALYZER_URL", &cfg.AnalyzerURL)
	set("PIPELINE_CORS_ORIGIN", &cfg.CORSOrigin)
	set("PIPELINE_LOG_LEVEL", &cfg.Log.Level)
	set("PIPELINE_LOG_FORMAT", &cfg.Log.Format)

	if v := os.Getenv("PIPELINE_SUBMIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SubmitTimeout = d
		}
	}
}

// Logger builds the slog logger described by l.
func (l Log) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
