package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aydenq/members-only/internal/models"
)

// PostgresStore handles user records in PostgreSQL, selectable as an
// alternative to the document database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist. Unique constraints
// back up the application-level duplicate check.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username   VARCHAR(20)  UNIQUE NOT NULL,
			email      VARCHAR(255) UNIQUE,
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password)
		 VALUES ($1, NULLIF($2, ''), $3)
		 RETURNING id, username, COALESCE(email, ''), created_at`,
		username, email, passwordHash,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.PasswordHash = passwordHash
	return &u, nil
}

func (s *PostgresStore) GetUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, COALESCE(email, ''), password, created_at
		 FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		var u models.User
		err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *PostgresStore) Exists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 OR ($2 <> '' AND email = $2)
		)`, username, email,
	).Scan(&exists)
	return exists, err
}
