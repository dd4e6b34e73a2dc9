package repository

import (
	"context"

	"pollboard/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create inserts a new user and fills in store-assigned fields
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID, returning (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by username, returning (nil, nil) when absent
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email, returning (nil, nil) when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]domain.User, error)

	// Update overwrites the stored user, returning domain.ErrUserNotFound when absent
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user, returning domain.ErrUserNotFound when absent
	Delete(ctx context.Context, id string) error
}

// TopicRepository defines the interface for topic data operations
type TopicRepository interface {
	Create(ctx context.Context, topic *domain.Topic) error
	GetByID(ctx context.Context, id string) (*domain.Topic, error)
	List(ctx context.Context) ([]domain.Topic, error)
	Update(ctx context.Context, topic *domain.Topic) error
	Delete(ctx context.Context, id string) error
}

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	// Create inserts a new poll together with its topic references
	Create(ctx context.Context, poll *domain.Poll) error

	// GetByID retrieves a poll by ID, returning (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*domain.Poll, error)

	// List retrieves all polls
	List(ctx context.Context) ([]domain.Poll, error)

	// ListByCreator retrieves all polls created by the given user
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Poll, error)

	// Update overwrites the poll's mutable fields and replaces its topic
	// references, returning domain.ErrPollNotFound when absent
	Update(ctx context.Context, poll *domain.Poll) error

	// Delete removes a poll, returning domain.ErrPollNotFound when absent
	Delete(ctx context.Context, id string) error

	// CastVote atomically increments the named option's count inside a
	// transaction holding a row lock, so concurrent votes serialize and no
	// increment is lost. Returns domain.ErrPollNotFound,
	// domain.ErrUnknownOption or domain.ErrMalformedOptions on failure.
	CastVote(ctx context.Context, pollID, optionName string) (*domain.Poll, error)
}
