package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pollboard/internal/domain"
	"pollboard/pkg/database"
)

type pollRepository struct {
	db *database.PostgresDB
}

// NewPollRepository creates the postgres-backed poll repository
func NewPollRepository(db *database.PostgresDB) PollRepository {
	return &pollRepository{db: db}
}

const pollColumns = `
	p.id, p.question, p.description, p.options, p.creator_id, p.private,
	p.created_at, p.updated_at,
	COALESCE(array_agg(pt.topic_id::text) FILTER (WHERE pt.topic_id IS NOT NULL), '{}')
`

// Create inserts a new poll together with its topic references
func (r *pollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	options, err := json.Marshal(poll.Options)
	if err != nil {
		return fmt.Errorf("failed to encode poll options: %w", err)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	poll.ID = uuid.New().String()

	err = tx.QueryRow(ctx, `
		INSERT INTO polls (id, question, description, options, creator_id, private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, poll.ID, poll.Question, poll.Description, options, poll.CreatorID, poll.Private).
		Scan(&poll.CreatedAt, &poll.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	for _, topicID := range poll.TopicIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO poll_topics (poll_id, topic_id) VALUES ($1, $2)
		`, poll.ID, topicID); err != nil {
			return fmt.Errorf("failed to link poll topic: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit poll creation: %w", err)
	}
	return nil
}

// GetByID retrieves a poll by ID, returning (nil, nil) when absent
func (r *pollRepository) GetByID(ctx context.Context, id string) (*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		LEFT JOIN poll_topics pt ON pt.poll_id = p.id
		WHERE p.id = $1
		GROUP BY p.id
	`

	poll, err := r.scanPoll(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return poll, nil
}

// List retrieves all polls
func (r *pollRepository) List(ctx context.Context) ([]domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		LEFT JOIN poll_topics pt ON pt.poll_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`
	return r.queryPolls(ctx, query)
}

// ListByCreator retrieves all polls created by the given user
func (r *pollRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		LEFT JOIN poll_topics pt ON pt.poll_id = p.id
		WHERE p.creator_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`
	return r.queryPolls(ctx, query, creatorID)
}

// Update overwrites the poll's mutable fields and replaces its topic references
func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE polls
		SET question = $2, description = $3, private = $4, updated_at = now()
		WHERE id = $1
	`, poll.ID, poll.Question, poll.Description, poll.Private)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPollNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM poll_topics WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to clear poll topics: %w", err)
	}
	for _, topicID := range poll.TopicIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO poll_topics (poll_id, topic_id) VALUES ($1, $2)
		`, poll.ID, topicID); err != nil {
			return fmt.Errorf("failed to link poll topic: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit poll update: %w", err)
	}
	return nil
}

// Delete removes a poll, returning domain.ErrPollNotFound when absent
func (r *pollRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

// CastVote increments the named option's count. The row lock serializes
// concurrent votes on the same poll so no increment is lost; the option map
// is written back wholesale inside the same transaction.
func (r *pollRepository) CastVote(ctx context.Context, pollID, optionName string) (*domain.Poll, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT options FROM polls WHERE id = $1 FOR UPDATE`, pollID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock poll row: %w", err)
	}

	var options map[string]int
	if err := json.Unmarshal(raw, &options); err != nil || options == nil {
		return nil, domain.ErrMalformedOptions
	}

	if _, ok := options[optionName]; !ok {
		// Voting never introduces new options
		return nil, domain.ErrUnknownOption
	}
	options[optionName]++

	updated, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode poll options: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE polls SET options = $2, updated_at = now() WHERE id = $1
	`, pollID, updated); err != nil {
		return nil, fmt.Errorf("failed to write poll options: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	poll, err := r.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

func (r *pollRepository) queryPolls(ctx context.Context, query string, args ...interface{}) ([]domain.Poll, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var polls []domain.Poll
	for rows.Next() {
		poll, err := r.scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, *poll)
	}
	return polls, rows.Err()
}

func (r *pollRepository) scanPoll(row pgx.Row) (*domain.Poll, error) {
	var poll domain.Poll
	var raw []byte

	err := row.Scan(
		&poll.ID,
		&poll.Question,
		&poll.Description,
		&raw,
		&poll.CreatorID,
		&poll.Private,
		&poll.CreatedAt,
		&poll.UpdatedAt,
		&poll.TopicIDs,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &poll.Options); err != nil {
		return nil, domain.ErrMalformedOptions
	}
	return &poll, nil
}
