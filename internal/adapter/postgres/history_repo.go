package postgres

import (
	"context"
	"time"

	"sortstore/internal/domain"
)

// Append inserts a history entry and returns its generated id.
func (d *DB) Append(ctx context.Context, userID int64, endpoint string, at time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO request_history (user_id, endpoint, created_at) VALUES ($1, $2, $3) RETURNING id",
		userID, endpoint, at.UTC(),
	).Scan(&id)
	return id, err
}

// ListByUser returns the user's entries newest first, id descending on
// equal timestamps.
func (d *DB) ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, endpoint, created_at FROM request_history WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Endpoint, &e.Timestamp); err != nil {
			return nil, err
		}
		e.UserID = userID
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearByUser deletes all of the user's entries.
func (d *DB) ClearByUser(ctx context.Context, userID int64) error {
	_, err := d.sql.ExecContext(ctx,
		"DELETE FROM request_history WHERE user_id = $1", userID)
	return err
}
