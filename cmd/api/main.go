package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/seed"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Environment.GinMode())

	ctx := context.Background()

	recipeStore, err := store.New(cfg.StoreDriver)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	if err := seedStore(ctx, cfg, recipeStore); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() && cfg.RateLimit > 0 {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis for rate limiting, using in-process limiter: %v", err)
			redisClient = nil
		}
	}

	srv := server.New(cfg, recipeStore, redisClient)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func seedStore(ctx context.Context, cfg *config.Config, s store.Store) error {
	var objects seed.ObjectReader
	if seed.IsS3(cfg.SeedSource) {
		s3cfg, err := config.NewS3Config(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		objects = s3cfg
	}

	reqs, err := seed.Load(ctx, cfg.SeedSource, objects)
	if err != nil {
		return err
	}

	created, err := service.NewRecipeService(s).Seed(ctx, reqs)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d recipes", len(created))
	return nil
}
