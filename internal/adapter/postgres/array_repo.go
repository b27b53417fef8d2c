package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sortstore/internal/domain"
)

// GetByUserID returns the user's array record, or nil if none is stored.
// The sequence is persisted as JSON text and round-trips integers exactly.
func (d *DB) GetByUserID(ctx context.Context, userID int64) (*domain.ArrayRecord, error) {
	var data string
	err := d.sql.QueryRowContext(ctx,
		"SELECT array_data FROM user_arrays WHERE user_id = $1", userID).Scan(&data)
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
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO user_arrays (user_id, array_data) VALUES ($1, $2) ON CONFLICT (user_id) DO UPDATE SET array_data = EXCLUDED.array_data",
		userID, string(data))
	return err
}
