package domain

import (
	"errors"
	"time"
)

// ErrTopicNotFound is returned by the topic repository when no topic exists
// for the given ID.
var ErrTopicNotFound = errors.New("topic not found")

// Topic represents a named category referenceable by polls and users
type Topic struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTopicRequest represents a topic creation request
type CreateTopicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateTopicRequest represents a topic update request
type UpdateTopicRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
