package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/coltonsr77/uzi-doorman-bot/internal/config"
	"github.com/coltonsr77/uzi-doorman-bot/internal/handlers"
	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
	"github.com/coltonsr77/uzi-doorman-bot/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     *handlers.Handler
	middleware  *middleware.Middleware
	botEndpoint bool
	log         *logger.Logger
}

// New creates a new HTTP server. The bot endpoints are only registered
// when API keys are configured; /health is always served.
func New(cfg *config.Config, handler *handlers.Handler, log *logger.Logger) *Server {
	mw := middleware.New(log)
	mw.SetAPIKeys(cfg.Security.APIKeys)

	return &Server{
		handler:     handler,
		middleware:  mw,
		botEndpoint: cfg.HTTPEnabled(),
		log:         log.Component("http"),
	}
}

// Routes builds the routed handler wrapped in the middleware chain
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	// Register routes
	r.HandleFunc("/health", s.handler.HealthCheck).Methods(http.MethodGet)
	if s.botEndpoint {
		r.HandleFunc("/roleplay", s.handler.Roleplay).Methods(http.MethodPost)
		r.HandleFunc("/commits", s.handler.Commits).Methods(http.MethodGet)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"Not found","code":"NOT_FOUND"}`, http.StatusNotFound)
	})

	// Apply middleware chain
	handler := s.middleware.Recovery(r)
	handler = s.middleware.Logging(handler)
	handler = s.middleware.Security(handler)
	handler = s.middleware.CORS(handler)
	handler = s.middleware.RateLimit(handler)
	handler = s.middleware.APIKeyAuth(handler)
	handler = s.middleware.RequestID(handler)

	return handler
}

// Start starts the HTTP server. Errors after startup are sent to errChan.
func (s *Server) Start(cfg *config.Config, errChan chan<- error) error {
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      s.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	s.log.Infof("HTTP server listening on %s", cfg.Server.Address())
	if !s.botEndpoint {
		s.log.Info("API_KEYS not set, serving /health only")
	}

	// Start server in a goroutine
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server shutdown complete")
	return nil
}
