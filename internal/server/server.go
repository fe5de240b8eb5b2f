// Package server exposes the anonymization engine over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/analyzer"
	"github.com/veilware/veil/internal/cache"
	"github.com/veilware/veil/internal/config"
	"github.com/veilware/veil/internal/engine"
	"github.com/veilware/veil/internal/events"
	"github.com/veilware/veil/internal/logger"
	"github.com/veilware/veil/internal/monitor"
	"github.com/veilware/veil/internal/pii"
	"github.com/veilware/veil/internal/recognizer"
	"github.com/veilware/veil/internal/store"
)

// Version is reported on /info. Set at build time via ldflags.
var Version = "0.1.0"

// pipeKey selects a prebuilt pipeline variant. Language changes both
// detection and fake generation; the deterministic flag only the latter.
type pipeKey struct {
	lang          pii.Language
	deterministic bool
}

// Server exposes the anonymization pipeline over HTTP
type Server struct {
	config    *config.Config
	logger    *logger.Logger
	registry  *recognizer.Registry
	analyzer  analyzer.Analyzer
	pipelines map[pipeKey]*engine.Pipeline
	store     *store.Store
	hub       *events.Hub
	monitor   *monitor.Monitor
	limiter   *ipLimiter
	router    *mux.Router
	server    *http.Server
	started   time.Time
	purgeStop chan struct{}
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	registry := recognizer.NewRegistry(log.WithComponent("recognizer").Logger)

	cacheStore, err := cache.New(&cfg.Cache, log.WithComponent("cache").Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	az, err := analyzer.New(&cfg.Analyzer, registry, cacheStore, log.WithComponent("analyzer").Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	s := &Server{
		config:    cfg,
		logger:    log.WithComponent("server"),
		registry:  registry,
		analyzer:  az,
		pipelines: make(map[pipeKey]*engine.Pipeline),
		monitor:   monitor.New(),
		router:    mux.NewRouter(),
		started:   time.Now(),
	}

	for _, lang := range pii.SupportedLanguages() {
		for _, det := range []bool{false, true} {
			ecfg := cfg.Engine
			ecfg.Language = lang
			ecfg.DeterministicFakes = det
			p, err := engine.NewPipeline(&ecfg, az, log.WithComponent("engine").Logger)
			if err != nil {
				return nil, fmt.Errorf("failed to create pipeline for %s: %w", lang, err)
			}
			s.pipelines[pipeKey{lang, det}] = p
		}
	}

	if cfg.Store.Enabled {
		sessions, err := store.NewStore(&cfg.Store, log.WithComponent("store").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
		s.store = sessions
	}

	if cfg.WebSocket.Enabled {
		s.hub = events.NewHub(&cfg.WebSocket, log.WithComponent("events").Logger)
	}

	if cfg.RateLimit.Enabled {
		s.limiter = newIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	if s.hub != nil {
		path := s.config.WebSocket.Path
		if path == "" {
			path = "/ws"
		}
		s.router.HandleFunc(path, s.handleWebSocket).Methods("GET")
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.rateLimitMiddleware)
	api.Use(s.bodyLimitMiddleware)
	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST")
	api.HandleFunc("/deanonymize", s.handleDeanonymize).Methods("POST")
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	api.HandleFunc("/entities", s.handleEntities).Methods("GET")
	api.HandleFunc("/languages", s.handleLanguages).Methods("GET")
}

// pipelineFor returns the pipeline variant for a request. A nil
// deterministic override falls back to the configured mode.
func (s *Server) pipelineFor(lang pii.Language, deterministic *bool) *engine.Pipeline {
	det := s.config.Engine.DeterministicFakes
	if deterministic != nil {
		det = *deterministic
	}
	return s.pipelines[pipeKey{lang: lang, deterministic: det}]
}

func (s *Server) defaultPipeline() *engine.Pipeline {
	return s.pipelineFor(s.config.Engine.Language, nil)
}

// Start starts the HTTP server and background workers
func (s *Server) Start() error {
	s.started = time.Now()
	s.logger.Info("Starting veil server",
		zap.Int("port", s.config.Server.Port),
		zap.String("language", string(s.config.Engine.Language)),
		zap.String("analyzer", s.analyzerType()),
		zap.String("cache", s.config.Cache.Strategy),
		zap.Bool("store", s.store != nil),
	)

	if s.hub != nil {
		go s.hub.Run()
	}
	if s.store != nil {
		s.purgeStop = make(chan struct{})
		go s.purgeLoop(s.purgeStop)
	}

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping veil server")
	if s.purgeStop != nil {
		close(s.purgeStop)
		s.purgeStop = nil
	}
	return s.server.Shutdown(ctx)
}

// Close releases analyzer and store resources
func (s *Server) Close() error {
	var err error
	if c, ok := s.analyzer.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			err = cerr
		}
	}
	if s.store != nil {
		if cerr := s.store.Close(); cerr != nil {
			err = cerr
		}
	}
	return err
}

// purgeLoop periodically removes expired sessions
func (s *Server) purgeLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := s.store.Purge(ctx); err != nil {
				s.logger.Warn("Session purge failed", zap.Error(err))
			}
			cancel()
		case <-stop:
			return
		}
	}
}

func (s *Server) analyzerType() string {
	if s.config.Analyzer.Type == "" {
		return analyzer.TypePattern
	}
	return s.config.Analyzer.Type
}

// handleHealth reports liveness and component states
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	components := map[string]string{
		"analyzer": s.analyzerType(),
		"cache":    s.config.Cache.Strategy,
	}

	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			components["store"] = "unavailable"
			status = "degraded"
		} else {
			components["store"] = "ok"
		}
	} else {
		components["store"] = "disabled"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().Format(time.RFC3339),
		Components: components,
	})
}

// handleInfo describes the running service
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := InfoResponse{
		Name:       "veil",
		Version:    Version,
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Language:   s.config.Engine.Language,
		Analyzer:   s.analyzerType(),
		Cache:      s.config.Cache.Strategy,
		Processing: s.monitor.Snapshot(),
	}

	if s.hub != nil {
		stats := s.hub.GetStats()
		info.Events = &stats
	}
	if s.store != nil {
		if count, err := s.store.Count(r.Context()); err == nil {
			info.Sessions = &count
		}
	}

	writeJSON(w, http.StatusOK, info)
}

// handleWebSocket attaches a subscriber to the event hub
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.HandleWebSocket(w, r)
}
