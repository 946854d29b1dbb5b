// Package api exposes the catalog, ranking, sessions and saved decisions
// over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/model"
	"github.com/sells-group/atio-cli/internal/session"
	"github.com/sells-group/atio-cli/internal/store"
)

// Options tunes the server.
type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	DefaultWeights model.RankingWeights
	StartYear      int
	Registry       *prometheus.Registry
}

// Server holds the handler dependencies.
type Server struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	store    store.Store
	opts     Options
	metrics  *Metrics
	log      *zap.Logger
}

// NewServer creates a Server. A nil registry gets a private one.
func NewServer(c *catalog.Catalog, sessions *session.Manager, st store.Store, opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	return &Server{
		catalog:  c,
		sessions: sessions,
		store:    st,
		opts:     opts,
		metrics:  NewMetrics(opts.Registry, sessions),
		log:      zap.L().With(zap.String("component", "api")),
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(requestLogger(s.log))
	r.Use(s.metrics.instrument)
	r.Use(rateLimit(s.opts.RateLimit, s.opts.RateBurst))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/options", s.handleOptions)
		api.Get("/catalog", s.handleListCatalog)
		api.Get("/catalog/{id}", s.handleGetInnovation)
		api.Get("/sdgs", s.handleSDGs)
		api.Get("/rank", s.handleRank)

		api.Post("/sessions", s.handleCreateSession)
		api.Route("/sessions/{sessionID}", func(sr chi.Router) {
			sr.Get("/", s.handleGetSession)
			sr.Delete("/", s.handleDeleteSession)
			sr.Post("/onboard", s.handleOnboard)
			sr.Patch("/context", s.handleUpdateContext)
			sr.Put("/weights", s.handleSetWeights)
			sr.Post("/logout", s.handleLogout)
			sr.Post("/stage", s.handleAdvance)
			sr.Get("/explore", s.handleExplore)
			sr.Delete("/comparison", s.handleClearComparison)
			sr.Post("/comparison/{innovationID}", s.handleAddComparison)
			sr.Delete("/comparison/{innovationID}", s.handleRemoveComparison)
			sr.Get("/analysis", s.handleAnalysis)
			sr.Get("/report", s.handleReport)
			sr.Post("/decisions", s.handleSaveDecision)
			sr.Post("/export/{format}", s.handleExport)
		})

		api.Get("/decisions", s.handleListDecisions)
		api.Get("/decisions/{id}", s.handleGetDecision)
		api.Delete("/decisions/{id}", s.handleDeleteDecision)
	})

	return r
}
