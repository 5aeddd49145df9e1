package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aegisnet/appliance/internal/auth"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteRegistrar allows a component to register routes and middleware on the
// server mux without the gateway importing its concrete package.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
	Middleware() func(http.Handler) http.Handler
}

// SimpleRouteRegistrar registers routes without contributing middleware.
type SimpleRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Server is the appliance's HTTP and WebSocket front door.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// New creates a Server wired with the operator auth registrar and any number
// of additional route registrars (scan/traffic handlers, the WebSocket
// stream). When devMode is true, Swagger UI is served at /swagger/.
func New(cfg Config, logger *zap.Logger, authHandler RouteRegistrar, extraRoutes ...SimpleRouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{logger: logger, mux: mux}

	s.registerRoutes()
	authHandler.RegisterRoutes(mux)
	for _, r := range extraRoutes {
		r.RegisterRoutes(mux)
	}

	if cfg.DevMode {
		mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		logger.Info("swagger UI enabled (dev_mode)", zap.String("path", "/swagger/"))
	}

	middlewares := []Middleware{
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		LoggingMiddleware(logger, []string{"/healthz", "/metrics"}),
		SecurityHeadersMiddleware,
		VersionHeaderMiddleware,
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, []string{"/healthz", "/metrics"}),
		authHandler.Middleware(),
	}

	handler := Chain(mux, middlewares...)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// registerRoutes sets up the unversioned operational endpoints.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Start begins serving HTTP requests. It blocks until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting gateway HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down gateway HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// compile-time checks that the gateway's own registrars satisfy the
// interfaces Server.New expects.
var (
	_ RouteRegistrar       = (*auth.Handler)(nil)
	_ SimpleRouteRegistrar = (*Handlers)(nil)
	_ SimpleRouteRegistrar = (*StreamHandler)(nil)
)
