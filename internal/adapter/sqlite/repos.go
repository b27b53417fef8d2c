package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sortstore/internal/domain"
)

// Timestamps are stored as UTC unix nanoseconds so descending integer
// order matches descending time order exactly.

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx,
		"SELECT id, username, password_hash, token, created_at FROM users WHERE username = ?",
		username)
}

// GetByToken retrieves a user by their current session token.
func (d *DB) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return d.getUser(ctx,
		"SELECT id, username, password_hash, token, created_at FROM users WHERE token = ?",
		token)
}

func (d *DB) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	err := d.sql.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Token, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	return &u, nil
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, username, passwordHash, token string) (*domain.User, error) {
	now := time.Now().UTC()
	res, err := d.exec(ctx,
		"INSERT INTO users (username, password_hash, token, created_at) VALUES (?, ?, ?, ?)",
		username, passwordHash, token, now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Token:        token,
		CreatedAt:    now,
	}, nil
}

// UpdateToken replaces the user's current token, invalidating the old one.
func (d *DB) UpdateToken(ctx context.Context, userID int64, token string) error {
	_, err := d.exec(ctx, "UPDATE users SET token = ? WHERE id = ?", token, userID)
	return err
}

// UpdateCredentials replaces the user's password hash and token in one
// statement.
func (d *DB) UpdateCredentials(ctx context.Context, userID int64, passwordHash, token string) error {
	_, err := d.exec(ctx,
		"UPDATE users SET password_hash = ?, token = ? WHERE id = ?",
		passwordHash, token, userID)
	return err
}

// GetByUserID returns the user's array record, or nil if none is stored.
func (d *DB) GetByUserID(ctx context.Context, userID int64) (*domain.ArrayRecord, error) {
	var data string
	err := d.sql.QueryRowContext(ctx,
		"SELECT array_data FROM user_arrays WHERE user_id = ?", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var values []int
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	return &domain.ArrayRecord{UserID: userID, Values: values}, nil
}

// Save upserts the user's array, replacing any existing sequence in full.
func (d *DB) Save(ctx context.Context, userID int64, values []int) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode array: %w", err)
	}
	_, err = d.exec(ctx,
		"INSERT INTO user_arrays (user_id, array_data) VALUES (?, ?) ON CONFLICT(user_id) DO UPDATE SET array_data = excluded.array_data",
		userID, string(data))
	return err
}

// Append inserts a history entry and returns its generated id.
func (d *DB) Append(ctx context.Context, userID int64, endpoint string, at time.Time) (int64, error) {
	res, err := d.exec(ctx,
		"INSERT INTO request_history (user_id, endpoint, created_at) VALUES (?, ?, ?)",
		userID, endpoint, at.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}
	return res.LastInsertId()
}

// ListByUser returns the user's entries newest first, id descending on
// equal timestamps.
func (d *DB) ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, endpoint, created_at FROM request_history WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Endpoint, &createdAt); err != nil {
			return nil, err
		}
		e.UserID = userID
		e.Timestamp = time.Unix(0, createdAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearByUser deletes all of the user's entries.
func (d *DB) ClearByUser(ctx context.Context, userID int64) error {
	_, err := d.exec(ctx, "DELETE FROM request_history WHERE user_id = ?", userID)
	return err
}
