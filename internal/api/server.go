package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leadlaw/contractengine/internal/config"
	"github.com/leadlaw/contractengine/internal/engine"
	"github.com/leadlaw/contractengine/internal/pipeline"
	"github.com/leadlaw/contractengine/internal/templatestore"
)

// Server is the HTTP API for the contract document engine.
type Server struct {
	router       chi.Router
	engine       *engine.Engine
	orchestrator *pipeline.Orchestrator
	store        *templatestore.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(eng *engine.Engine, orch *pipeline.Orchestrator, store *templatestore.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		engine:       eng,
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.EngineAPIKey))

		r.Post("/api/render", s.handleRender)
		r.Post("/api/pricing/recompute", s.handleRecompute)

		r.Get("/api/templates/{templateID}", s.handleGetTemplate)
		r.Post("/api/templates/import", s.handleImport)
		r.Get("/api/templates/import/{jobID}/status", s.handleImportStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
