package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sortstore/internal/domain"
)

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx,
		"SELECT id, username, password_hash, token, created_at FROM users WHERE username = $1",
		username)
}

// GetByToken retrieves a user by their current session token.
func (d *DB) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return d.getUser(ctx,
		"SELECT id, username, password_hash, token, created_at FROM users WHERE token = $1",
		token)
}

func (d *DB) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Token, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, username, passwordHash, token string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO users (username, password_hash, token, created_at) VALUES ($1, $2, $3, $4) RETURNING id, username, password_hash, token, created_at",
		username, passwordHash, token, time.Now().UTC(),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Token, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateToken replaces the user's current token, invalidating the old one.
func (d *DB) UpdateToken(ctx context.Context, userID int64, token string) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET token = $1 WHERE id = $2", token, userID)
	return err
}

// UpdateCredentials replaces the user's password hash and token in one
// statement.
func (d *DB) UpdateCredentials(ctx context.Context, userID int64, passwordHash, token string) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, token = $2 WHERE id = $3",
		passwordHash, token, userID)
	return err
}
