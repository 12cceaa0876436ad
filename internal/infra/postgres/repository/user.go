package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/infra/postgres"
)

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureSchema creates the users table and its indexes when they do not exist yet.
// Run it inside a transaction so a half-created schema is never left behind.
func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id           BIGINT PRIMARY KEY,
			chat_id      BIGINT NOT NULL,
			first_seen   TIMESTAMPTZ NOT NULL,
			last_seen_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS users_last_seen_at_idx ON users (last_seen_at)`,
	}

	for _, query := range statements {
		if _, err := r.db.Exec(ctx, query); err != nil {
			return fmt.Errorf("ensure users schema: %w", err)
		}
	}
	return nil
}

// Touch inserts a new user or refreshes last_seen_at of an existing one.
// It reports whether the user was created.
func (r *UserRepository) Touch(ctx context.Context, user *entities.User) (bool, error) {
	query := `
		INSERT INTO users (id, chat_id, first_seen, last_seen_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			last_seen_at = EXCLUDED.last_seen_at
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRow(ctx, query, user.ID, user.ChatID, user.FirstSeen, user.LastSeenAt).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("touch user: %w", err)
	}

	return created, nil
}
