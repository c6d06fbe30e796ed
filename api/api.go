// Package api exposes the analyzer, persisted pipelines and one editor
// session over HTTP.
package api

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/client"
	"github.com/meikuraledutech/pipeline/graph"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	store    pipeline.Store
	editor   *Editor
	log      *slog.Logger
	metrics  *metrics
	registry *prometheus.Registry
	validate *validator.Validate
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables persistence of analysed pipelines.
func WithStore(s pipeline.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.log = l
		}
	}
}

// WithSubmitter sets where the editor session submits its snapshots.
func WithSubmitter(sub *client.Submitter) Option {
	return func(srv *Server) { srv.editor.submitter = sub }
}

// New builds a Server with a fresh editor session.
func New(opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	srv := &Server{
		log:      slog.Default(),
		metrics:  newMetrics(reg),
		registry: reg,
		validate: validator.New(),
	}
	srv.editor = &Editor{}
	for _, opt := range opts {
		opt(srv)
	}
	srv.editor.graph = graph.New(graph.WithLogger(srv.log))
	return srv
}

// Editor returns the editor session.
func (s *Server) Editor() *Editor { return s.editor }

// Register mounts every route on app.
func (s *Server) Register(app *fiber.App) {
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// ── Analyzer & persisted pipelines ───────────────────────────────
	app.Post("/pipelines/parse", s.parsePipeline)
	app.Get("/pipelines", s.listPipelines)
	app.Get("/pipelines/:id", s.getPipeline)
	app.Delete("/pipelines/:id", s.deletePipeline)

	// ── Editor session ───────────────────────────────────────────────
	ed := app.Group("/editor")
	ed.Get("/", s.getEditor)
	ed.Delete("/", s.resetEditor)
	ed.Get("/kinds", s.listKinds)
	ed.Post("/drop", s.drop)
	ed.Patch("/nodes/:id", s.updateField)
	ed.Post("/nodes/changes", s.nodeChanges)
	ed.Post("/edges/changes", s.edgeChanges)
	ed.Post("/connect", s.connect)
	ed.Post("/submit", s.submit)
	ed.Get("/result", s.getResult)
	ed.Delete("/result", s.dismissResult)
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
