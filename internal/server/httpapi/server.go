// Package httpapi exposes the authentication service over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/seniko/internal/logging"
	"github.com/dmitrijs2005/seniko/internal/server/metrics"
	"github.com/dmitrijs2005/seniko/internal/server/models"
	"github.com/dmitrijs2005/seniko/internal/server/ratelimit"
	"github.com/dmitrijs2005/seniko/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the part of services.UserService used by the handlers.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req services.LoginRequest) (string, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

// Options carries optional collaborators of the HTTP server.
type Options struct {
	// Limiter guards the auth routes. Nil disables rate limiting.
	Limiter ratelimit.Limiter
	// Metrics records request durations and auth outcomes. Nil creates a
	// private registry.
	Metrics *metrics.Metrics
	// AllowedOrigins for CORS. Empty allows any origin without credentials.
	AllowedOrigins []string
	// TrustedProxies are the IPs or CIDRs whose X-Forwarded-For is believed
	// when resolving the client IP. Empty trusts no proxy.
	TrustedProxies []string
}

type HTTPServer struct {
	address string
	users   AuthService
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
	logger  logging.Logger
	engine  *gin.Engine
}

func NewHTTPServer(addr string, l logging.Logger, us AuthService, opts Options) (*HTTPServer, error) {
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	s := &HTTPServer{
		address: addr,
		users:   us,
		limiter: opts.Limiter,
		metrics: m,
		logger:  l.With("module", "http_server"),
	}
	engine, err := s.newRouter(opts)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Handler returns the configured router.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) newRouter(opts Options) (*gin.Engine, error) {
	r := gin.New()

	// gin trusts every peer's X-Forwarded-For until told otherwise; the
	// rate limiter keys on the resolved client IP.
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(gin.Recovery(), s.requestID(), s.accessLog(), cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.mountAuth(r.Group("/auth"))
	s.mountAuth(r.Group("/api/v1/auth"))

	return r, nil
}

func (s *HTTPServer) mountAuth(g *gin.RouterGroup) {
	if s.limiter != nil {
		g.Use(s.rateLimit())
	}
	g.POST("/login", s.login)
	g.POST("/register", s.register)
	g.GET("/me", s.bearerAuth(), s.me)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader, "Retry-After"}
	return cfg
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	// starts accepting incoming connections
	err := srv.Serve(listen)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}
