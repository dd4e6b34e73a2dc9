package service

import (
	"context"
	"time"

	"pollboard/internal/domain"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a new account after validating uniqueness of
	// username and email
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and issues a signed token
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error)

	// VerifyToken validates a token's signature and expiry and returns the
	// decoded identity claims
	VerifyToken(ctx context.Context, token string) (*domain.AuthClaims, error)
}

// UserService defines the interface for user management operations
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, req *domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// TopicService defines the interface for topic management operations
type TopicService interface {
	Create(ctx context.Context, req *domain.CreateTopicRequest) (*domain.Topic, error)
	List(ctx context.Context) ([]domain.Topic, error)
	Get(ctx context.Context, id string) (*domain.Topic, error)
	Update(ctx context.Context, id string, req *domain.UpdateTopicRequest) (*domain.Topic, error)
	Delete(ctx context.Context, id string) error
}

// PollService defines the interface for poll operations including the vote
// tally engine and derived results
type PollService interface {
	Create(ctx context.Context, creatorID string, req *domain.CreatePollRequest) (*domain.Poll, error)
	List(ctx context.Context, viewerID string) ([]domain.Poll, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Poll, error)
	Get(ctx context.Context, id string) (*domain.Poll, error)
	Update(ctx context.Context, actorID, pollID string, req *domain.UpdatePollRequest) (*domain.Poll, error)
	Delete(ctx context.Context, actorID, pollID string) error

	// Vote increments the named option's count and returns the updated poll
	Vote(ctx context.Context, pollID, optionName string) (*domain.Poll, error)

	// Results derives per-option percentages and ranking for a poll
	Results(ctx context.Context, pollID string) (*domain.PollResults, error)
}

// RateLimitDecision is the outcome of a rate limit check
type RateLimitDecision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// RateLimiter defines the interface for the fixed-window limiter guarding
// the auth endpoints
type RateLimiter interface {
	Allow(ctx context.Context, clientID string) (*RateLimitDecision, error)
}

// Services aggregates all service interfaces
type Services struct {
	Auth        AuthService
	Users       UserService
	Topics      TopicService
	Polls       PollService
	RateLimiter RateLimiter
}
