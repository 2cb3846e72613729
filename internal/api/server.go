package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/leadgest/internal/config"
	"github.com/dgallion1/leadgest/internal/pipeline"
	"github.com/dgallion1/leadgest/internal/sink"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LeadLister reads back stored leads. Only the SQLite sink provides one.
type LeadLister interface {
	List(ctx context.Context, limit int) ([]sink.StoredLead, error)
}

// Server is the HTTP API server for leadgest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	leads        LeadLister
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. leads may be nil, in
// which case listing stored leads is reported as not implemented.
func NewServer(orch *pipeline.Orchestrator, leads LeadLister, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		leads:        leads,
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
		r.Use(AuthMiddleware(s.cfg.LeadgestAPIKey, s.log))

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/leads", s.handleSubmitLead)
		r.Post("/api/leads/batch", s.handleBatchSubmit)
		r.Get("/api/leads", s.handleListLeads)
		r.Get("/api/leads/{jobID}", s.handleLeadStatus)
		r.Get("/api/stats/extract", s.handleExtractStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
