package domain

import (
	"errors"
	"time"
)

// Persistence-level sentinel errors surfaced by the poll repository. The
// service layer maps them to structured API errors.
var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrUnknownOption    = errors.New("poll option does not exist")
	ErrMalformedOptions = errors.New("poll options map is malformed")
)

// Poll represents a poll with a fixed set of named options, each carrying a
// vote count. Option keys are fixed at creation; counts only ever increase.
type Poll struct {
	ID          string         `json:"id"`
	Question    string         `json:"question"`
	Description string         `json:"description,omitempty"`
	Options     map[string]int `json:"options"`
	TopicIDs    []string       `json:"topic_ids"`
	CreatorID   string         `json:"creator_id"`
	Private     bool           `json:"private"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreatePollRequest represents a poll creation request. Options arrive as a
// list of names and are initialised to zero counts.
type CreatePollRequest struct {
	Question    string   `json:"question"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	TopicIDs    []string `json:"topic_ids"`
	Private     bool     `json:"private"`
}

// UpdatePollRequest represents a poll update request. Nil fields are left
// unchanged; a non-nil TopicIDs replaces the topic set wholesale.
type UpdatePollRequest struct {
	Question    *string   `json:"question"`
	Description *string   `json:"description"`
	TopicIDs    *[]string `json:"topic_ids"`
	Private     *bool     `json:"private"`
}

// VoteResponse represents the response after a successful vote
type VoteResponse struct {
	Message string `json:"message"`
	Poll    *Poll  `json:"poll"`
}

// OptionResult represents one option's share of the vote
type OptionResult struct {
	Name       string  `json:"name"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
	Rank       int     `json:"rank"`
	IsWinner   bool    `json:"is_winner"`
}

// PollResults represents derived results for a poll: per-option counts,
// percentages and ranking.
type PollResults struct {
	PollID     string         `json:"poll_id"`
	Question   string         `json:"question"`
	Options    []OptionResult `json:"options"`
	TotalVotes int            `json:"total_votes"`
	LastUpdate time.Time      `json:"last_update"`
}
