package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
)

// Server represents the HTTP server and the resources it owns
type Server struct {
	router *gin.Engine
	http   *http.Server
	store  store.Store
	redis  *redis.Client
}

// New creates a new server instance around an already seeded store.
// redisClient may be nil, in which case rate limiting stays in process.
func New(cfg *config.Config, s store.Store, redisClient *redis.Client) *Server {
	recipeService := service.NewRecipeService(s)

	engine := router.SetupRouter(recipeService, router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		Limiter:        newLimiter(cfg, redisClient),
		RequestLogging: cfg.Environment != config.Test && cfg.Environment != config.CI,
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store: s,
		redis: redisClient,
	}
}

func newLimiter(cfg *config.Config, redisClient *redis.Client) middleware.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	limitCfg := middleware.RateLimitConfig{
		Window: cfg.RateLimitWindow,
		Limit:  cfg.RateLimit,
	}
	if redisClient != nil {
		return middleware.NewRedisLimiter(redisClient, limitCfg)
	}
	return middleware.NewMemoryLimiter(limitCfg)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	log.Printf("Your app is listening on %s", ln.Addr())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, then releases the store and Redis client
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	return errors.Join(errs...)
}
