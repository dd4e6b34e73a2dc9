package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pollboard/internal/domain"
	"pollboard/pkg/database"
)

type topicRepository struct {
	db *database.PostgresDB
}

// NewTopicRepository creates the postgres-backed topic repository
func NewTopicRepository(db *database.PostgresDB) TopicRepository {
	return &topicRepository{db: db}
}

// Create inserts a new topic
func (r *topicRepository) Create(ctx context.Context, topic *domain.Topic) error {
	topic.ID = uuid.New().String()

	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO topics (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, topic.ID, topic.Name, topic.Description).Scan(&topic.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// GetByID retrieves a topic by ID, returning (nil, nil) when absent
func (r *topicRepository) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	var topic domain.Topic
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, created_at FROM topics WHERE id = $1
	`, id).Scan(&topic.ID, &topic.Name, &topic.Description, &topic.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &topic, nil
}

// List retrieves all topics
func (r *topicRepository) List(ctx context.Context) ([]domain.Topic, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, description, created_at FROM topics ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var topic domain.Topic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Description, &topic.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// Update overwrites the stored topic, returning domain.ErrTopicNotFound when absent
func (r *topicRepository) Update(ctx context.Context, topic *domain.Topic) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE topics SET name = $2, description = $3 WHERE id = $1
	`, topic.ID, topic.Name, topic.Description)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}

// Delete removes a topic, returning domain.ErrTopicNotFound when absent
func (r *topicRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}
