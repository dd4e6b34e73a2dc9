package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"pollboard/internal/config"
	"pollboard/internal/container"
	"pollboard/internal/handler"
	"pollboard/internal/middleware"
	"pollboard/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		// Quick health checks before closing (with short timeout)
		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.container.RedisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		if err := r.container.DB.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Database health check failed before closing")
		}
		healthCancel()

		if err := r.container.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close connections")
			errs = append(errs, fmt.Errorf("connection close: %w", err))
		} else {
			r.log.Info("Connections closed successfully")
		}
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting pollboard server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	// Cleanup runs regardless of how the program exits
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger
	services := c.Services

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c.DB, c.RedisClient, log)
	authHandler := handler.NewAuthHandler(services.Auth, cfg.Environment, log)
	userHandler := handler.NewUserHandler(services.Users, log)
	topicHandler := handler.NewTopicHandler(services.Topics, log)
	pollHandler := handler.NewPollHandler(services.Polls, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Rate-limited auth endpoints (no authentication required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(services.RateLimiter, log))

			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		// Public poll endpoints; private polls are filtered per viewer
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(services.Auth, log))

			r.Get("/polls", pollHandler.List)
			r.Get("/polls/{pollId}", pollHandler.Get)
			r.Get("/polls/{pollId}/results", pollHandler.Results)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, log))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{userId}", userHandler.Get)
				r.Put("/{userId}", userHandler.Update)
				r.Delete("/{userId}", userHandler.Delete)
			})

			r.Route("/topics", func(r chi.Router) {
				r.Post("/", topicHandler.Create)
				r.Get("/", topicHandler.List)
				r.Get("/{topicId}", topicHandler.Get)
				r.Put("/{topicId}", topicHandler.Update)
				r.Delete("/{topicId}", topicHandler.Delete)
			})

			r.Post("/polls", pollHandler.Create)
			r.Put("/polls/{pollId}", pollHandler.Update)
			r.Delete("/polls/{pollId}", pollHandler.Delete)
			r.Get("/polls/user/{userId}", pollHandler.ListByCreator)
			r.Post("/polls/{pollId}/vote/{valueName}", pollHandler.Vote)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
