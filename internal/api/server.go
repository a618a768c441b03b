package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/slidedeck/internal/config"
	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/pipeline"
	"github.com/dgallion1/slidedeck/internal/watch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP surface of slidedeck: presentation listing and files,
// selection, session status, and the rendered stage.
type Server struct {
	router   chi.Router
	pipeline *pipeline.Pipeline
	stage    *deck.Stage
	log      *slog.Logger
	cfg      config.Config
	watcher  *watch.Watcher
}

// Option configures a Server.
type Option func(*Server)

// WithWatcher reports w's activity under /api/stats.
func WithWatcher(w *watch.Watcher) Option {
	return func(s *Server) { s.watcher = w }
}

// NewServer creates and configures the HTTP server.
func NewServer(p *pipeline.Pipeline, stage *deck.Stage, log *slog.Logger, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		pipeline: p,
		stage:    stage,
		log:      log,
		cfg:      cfg,
	}
	for _, o := range opts {
		o(s)
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleStage)

	// Listing and raw documents.
	r.Get("/api/presentations", s.handleListPresentations)
	r.Get("/api/presentations/", s.handleListPresentations)
	r.Get("/presentations/{file}", s.handleServePresentation)
	r.Get("/api/themes", s.handleThemes)

	// Reveal stylesheets linked from the stage head.
	if s.cfg.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.cfg.AssetsDir))))
	}

	// Loader control.
	r.Post("/api/select", s.handleSelect)
	r.Post("/api/reload", s.handleReload)
	r.Get("/api/session", s.handleSession)
	r.Post("/api/session/slide", s.handleGotoSlide)
	r.Get("/api/stats", s.handleStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
