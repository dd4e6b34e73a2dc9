package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS poll_topics CASCADE`,
		`DROP TABLE IF EXISTS user_topics CASCADE`,
		`DROP TABLE IF EXISTS polls CASCADE`,
		`DROP TABLE IF EXISTS topics CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT users_username_unique UNIQUE (username),
			CONSTRAINT users_email_unique UNIQUE (email)
		)`,

		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS polls (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			options JSONB NOT NULL DEFAULT '{}'::jsonb,
			creator_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			private BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS poll_topics (
			poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			PRIMARY KEY (poll_id, topic_id)
		)`,

		`CREATE TABLE IF NOT EXISTS user_topics (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, topic_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_polls_creator_id ON polls(creator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_poll_topics_topic_id ON poll_topics(topic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_topics_topic_id ON user_topics(topic_id)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	fmt.Println("  Created tables: users, topics, polls, poll_topics, user_topics")

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	userID := uuid.New().String()
	_, err = conn.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, email_verified)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) DO NOTHING
	`, userID, "demo_user", "demo@example.com", string(passwordHash))
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	fmt.Println("  Seeded user: demo@example.com (password: password123)")

	topics := []string{"general", "technology", "sports"}
	topicIDs := make([]string, 0, len(topics))
	for _, name := range topics {
		topicID := uuid.New().String()
		_, err := conn.Exec(ctx, `
			INSERT INTO topics (id, name)
			VALUES ($1, $2)
		`, topicID, name)
		if err != nil {
			return fmt.Errorf("failed to seed topic %s: %w", name, err)
		}
		topicIDs = append(topicIDs, topicID)
	}
	fmt.Printf("  Seeded %d topics\n", len(topics))

	options, err := json.Marshal(map[string]int{"Go": 0, "TypeScript": 0, "Rust": 0})
	if err != nil {
		return fmt.Errorf("failed to marshal seed options: %w", err)
	}

	pollID := uuid.New().String()
	_, err = conn.Exec(ctx, `
		INSERT INTO polls (id, question, description, options, creator_id, private)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, pollID, "Which language should we use next?", "Seed poll for local development", options, userID)
	if err != nil {
		return fmt.Errorf("failed to seed poll: %w", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO poll_topics (poll_id, topic_id)
		VALUES ($1, $2)
	`, pollID, topicIDs[1])
	if err != nil {
		return fmt.Errorf("failed to link seed poll to topic: %w", err)
	}
	fmt.Println("  Seeded 1 poll")

	return nil
}
