// Package repository provides PostgreSQL persistence for users,
// classifications, and feedback.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/burnscan/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// PostgresUserRepository implements user persistence against a PostgreSQL
// database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByUsername fetches a user row by username. Returns sql.ErrNoRows
// (wrapped) when the user does not exist.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("%w: get user: %v", models.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// GetByID fetches a user row by id. Returns sql.ErrNoRows (wrapped) when no
// such user exists.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user id %d: %w", id, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("%w: get user by id: %v", models.ErrStoreUnavailable, err)
	}
	return &u, nil
}

// Create inserts a new user row and returns its generated id. A duplicate
// username fails with models.ErrUsernameTaken.
func (r *PostgresUserRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, models.ErrUsernameTaken
		}
		return 0, fmt.Errorf("%w: create user: %v", models.ErrStoreUnavailable, err)
	}
	return id, nil
}
