package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/liamwears/reelbrowser/internal/config"
	"github.com/liamwears/reelbrowser/internal/database"
	"github.com/liamwears/reelbrowser/internal/handlers"
	"github.com/liamwears/reelbrowser/internal/logging"
	"github.com/liamwears/reelbrowser/internal/metrics"
	"github.com/liamwears/reelbrowser/internal/middleware"
	"github.com/liamwears/reelbrowser/internal/services"
	"github.com/liamwears/reelbrowser/internal/static"
)

func main() {
	// Check for browse command
	if len(os.Args) > 1 && os.Args[1] == "browse" {
		if err := runBrowse(os.Args[2:], os.Stdin, os.Stdout); err != nil {
			log.Fatalf("browse: %v", err)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logging.New(cfg.Log.Level, cfg.IsProduction())
	logger.Infof("Starting reelbrowser server in %s mode", cfg.Server.Env)

	m := metrics.New()

	// Redis is optional, it only backs the rate limiter
	var redisClient *database.RedisClient
	var limiterClient *redis.Client
	var pinger handlers.Pinger
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(database.RedisConfig{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       0,
			TLS:      cfg.Redis.TLS,
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()
		limiterClient = redisClient.Client
		pinger = redisClient
	} else {
		logger.Info("REDIS_HOST not set, rate limiting disabled")
	}

	// Initialize services
	tmdbService := services.NewTMDBService(services.TMDBConfig{
		APIKey:      cfg.TMDB.APIKey,
		AccessToken: cfg.TMDB.AccessToken,
		BaseURL:     cfg.TMDB.BaseURL,
		Language:    cfg.TMDB.Language,
		Timeout:     cfg.TMDB.Timeout,
	}, logger, m)
	if tmdbService.Mode() == services.CredentialNone {
		logger.Warn("Neither TMDB_ACCESS_TOKEN nor TMDB_API_KEY is set, API requests will fail")
	}

	rateLimiter := middleware.NewRateLimiter(limiterClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.IsProduction(), logger)

	// Initialize renderer
	renderer, err := handlers.NewRenderer(cfg.TMDB.ImageBaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize renderer")
	}

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(tmdbService, cfg.IsDevelopment(), logger)
	pageHandler := handlers.NewPageHandler(renderer, handlers.PageConfig{
		PublicHost:   cfg.Server.PublicHost,
		Port:         cfg.Server.Port,
		Production:   cfg.IsProduction(),
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
	}, logger)

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, apiHandler, pageHandler, rateLimiter.Limit)

	// Serve static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", static.Handler()))

	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /health", handlers.NewHealthHandler(pinger, tmdbService.Mode()))

	// Wrap with logging and metrics middleware
	handler := middleware.Logger(logger)(m.Middleware(mux))

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serve(srv, logger)
}

// serve runs srv until SIGINT/SIGTERM, then shuts it down gracefully
func serve(srv *http.Server, logger logrus.FieldLogger) {
	// Start server in a goroutine
	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return
	}

	logger.Info("Server exited")
}
