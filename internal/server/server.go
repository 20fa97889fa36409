// Package server exposes the outreach engine over HTTP: scrape, analyze,
// and call triggers plus job bookkeeping and call-history lookups. The
// route shapes and response envelopes match what the existing dashboard
// clients already speak.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/analyzer"
	"github.com/scrapex/outreach-engine/internal/caller"
	"github.com/scrapex/outreach-engine/internal/config"
	"github.com/scrapex/outreach-engine/internal/pipeline"
	"github.com/scrapex/outreach-engine/internal/store"
	"github.com/scrapex/outreach-engine/pkg/salesforce"
)

// apiName and apiVersion identify the service in the root payload.
const (
	apiName    = "ScrapeX Healthcare API"
	apiVersion = "1.0.0"
)

// Server routes HTTP requests into the pipeline, analyzer, call manager,
// and job store.
type Server struct {
	pipe     *pipeline.Pipeline
	analyzer *analyzer.Analyzer
	manager  *caller.Manager
	store    store.Store
	sf       salesforce.Client
	validate *validator.Validate
	router   chi.Router
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithSalesforce enables background lead sync for interested call outcomes.
func WithSalesforce(c salesforce.Client) Option {
	return func(s *Server) { s.sf = c }
}

// New wires the HTTP server. The Salesforce client is optional; every
// other collaborator is required.
func New(pipe *pipeline.Pipeline, an *analyzer.Analyzer, mgr *caller.Manager, st store.Store, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		pipe:     pipe,
		analyzer: an,
		manager:  mgr,
		store:    st,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter(cfg)
	return s
}

// Router returns the fully wired handler for http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) buildRouter(cfg config.ServerConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scrape", s.handleScrape)
		r.Post("/bulk-scrape", s.handleBulkScrape)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/call", s.handleCall)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{jobID}", s.handleGetJob)
		r.Get("/calls", s.handleListCalls)
		r.Get("/calls/statistics", s.handleCallStats)
	})

	return r
}

// requestLogger emits one structured log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
