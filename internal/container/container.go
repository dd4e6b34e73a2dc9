package container

import (
	"context"
	"fmt"

	"pollboard/internal/config"
	"pollboard/internal/repository"
	"pollboard/internal/service"
	"pollboard/pkg/database"
	"pollboard/pkg/logger"
	"pollboard/pkg/redis"
)

// Container holds all application dependencies. The store and cache handles
// are constructed once here and injected into every component; nothing in
// the application reaches for ambient global state.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Services    *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	pollRepo := repository.NewPollRepository(db)

	services := &service.Services{
		Auth:        service.NewAuthService(userRepo, topicRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, log.Logger),
		Users:       service.NewUserService(userRepo, topicRepo, cfg.BcryptCost, log.Logger),
		Topics:      service.NewTopicService(topicRepo, log.Logger),
		Polls:       service.NewPollService(pollRepo, topicRepo, redisClient, log.Logger),
		RateLimiter: service.NewRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax, log.Logger),
	}

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Services:    services,
	}, nil
}

// Close releases the container's connections
func (c *Container) Close() error {
	var firstErr error
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	return firstErr
}
