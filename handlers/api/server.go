package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/nijaru/vod-highlights/config"
	"github.com/nijaru/vod-highlights/editor"
	"github.com/nijaru/vod-highlights/middleware"
	"github.com/nijaru/vod-highlights/services/controller"
	"github.com/nijaru/vod-highlights/share"
	"github.com/sirupsen/logrus"
)

type Server struct {
	highlights *HighlightHandler
	config     *config.Config
	logger     *logrus.Logger
	server     *http.Server
	startTime  time.Time
}

type ServerOption func(*Server)

// NewServer creates a new API server with the provided options
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// WithController sets up the highlight handlers. exporter may be nil.
func WithController(c *controller.Controller, exporter *share.Exporter) ServerOption {
	return func(s *Server) {
		s.highlights = NewHighlightHandler(c, exporter)
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Handler exposes the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	s.addV1Routes(mux)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.middleware(mux)
}

func (s *Server) addV1Routes(mux *http.ServeMux) {
	const v1Prefix = "/api/v1"

	mux.HandleFunc("GET "+v1Prefix+"/editor/catalog", s.handleCatalog)

	if s.highlights == nil {
		return
	}

	mux.HandleFunc("POST "+v1Prefix+"/highlights", s.highlights.HandleRequestHighlights)
	mux.HandleFunc("GET "+v1Prefix+"/highlights", s.highlights.HandleGetHighlights)
	mux.HandleFunc("GET "+v1Prefix+"/highlights/{id}/share", s.highlights.HandleShare)
	mux.HandleFunc("POST "+v1Prefix+"/highlights/export", s.highlights.HandleExport)

	mux.HandleFunc("POST "+v1Prefix+"/feedback", s.highlights.HandleFeedback)
	mux.HandleFunc("GET "+v1Prefix+"/preferences", s.highlights.HandleGetPreferences)
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	mw := s.config.Middleware
	var middlewares []func(http.Handler) http.Handler

	if mw.EnableRecover {
		middlewares = append(middlewares, middleware.Recovery(s.logger))
	}
	if mw.EnableRequestID {
		middlewares = append(middlewares, middleware.RequestID())
	}
	if mw.EnableLogger {
		middlewares = append(middlewares, middleware.Logging(s.logger))
	}
	if mw.EnableCORS {
		middlewares = append(middlewares, middleware.CORS(s.config.CORS))
	}
	if mw.EnableTimeout && s.config.RequestTimeout > 0 {
		middlewares = append(middlewares, middleware.Timeout(s.config.RequestTimeout))
	}
	if mw.EnableRateLimit && s.config.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerMinute,
			s.config.RateLimit.BurstSize,
		)
		middlewares = append(middlewares, rateLimiter.Middleware)
	}

	return middleware.Chain(handler, middlewares...)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   s.config.Version,
		"uptime":    time.Since(s.startTime).String(),
		"export":    s.config.Spaces.Enabled(),
	}

	if s.config.Debug {
		status["debug"] = true
		status["goroutines"] = runtime.NumGoroutine()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status["memory"] = map[string]interface{}{
			"allocated": m.Alloc,
			"total":     m.TotalAlloc,
			"system":    m.Sys,
			"gc_cycles": m.NumGC,
		}
	}

	respondJSON(w, r, http.StatusOK, status)
}

// handleCatalog handles GET /api/v1/editor/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, editor.Default(int(share.ClipLeadIn/time.Second)))
}
