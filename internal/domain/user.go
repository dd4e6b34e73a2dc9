package domain

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned by the user repository when no user exists for
// the given ID.
var ErrUserNotFound = errors.New("user not found")

// User represents a registered account. PasswordHash never crosses the API
// boundary.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	TopicIDs      []string  `json:"topic_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	TopicIDs []string `json:"topic_ids"`
}

// UpdateUserRequest represents a user update request. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Username *string   `json:"username"`
	Email    *string   `json:"email"`
	Password *string   `json:"password"`
	TopicIDs *[]string `json:"topic_ids"`
}
