package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pollboard/internal/domain"
	"pollboard/pkg/database"
)

type userRepository struct {
	db *database.PostgresDB
}

// NewUserRepository creates the postgres-backed user repository
func NewUserRepository(db *database.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.email_verified,
	u.created_at, u.updated_at,
	COALESCE(array_agg(ut.topic_id::text) FILTER (WHERE ut.topic_id IS NOT NULL), '{}')
`

// Create inserts a new user together with its topic references. The unique
// constraints on username and email backstop the service-level pre-check
// against concurrent signups.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user.ID = uuid.New().String()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, email_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.EmailVerified).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, topicID := range user.TopicIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_topics (user_id, topic_id) VALUES ($1, $2)
		`, user.ID, topicID); err != nil {
			return fmt.Errorf("failed to link user topic: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID, returning (nil, nil) when absent
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "u.id", id)
}

// GetByUsername retrieves a user by username, returning (nil, nil) when absent
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "u.username", username)
}

// GetByEmail retrieves a user by email, returning (nil, nil) when absent
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "u.email", email)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_topics ut ON ut.user_id = u.id
		WHERE ` + column + ` = $1
		GROUP BY u.id
	`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, value))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List retrieves all users
func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_topics ut ON ut.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// Update overwrites the stored user and replaces its topic references
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, email_verified = $5,
		    updated_at = now()
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.EmailVerified)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_topics WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("failed to clear user topics: %w", err)
	}
	for _, topicID := range user.TopicIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_topics (user_id, topic_id) VALUES ($1, $2)
		`, user.ID, topicID); err != nil {
			return fmt.Errorf("failed to link user topic: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user update: %w", err)
	}
	return nil
}

// Delete removes a user, returning domain.ErrUserNotFound when absent
func (r *userRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.TopicIDs,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
