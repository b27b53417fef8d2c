package domain

import (
	"context"
	"time"
)

// HistoryEntry is one logged request. Entries are append-only; the only
// mutation is bulk deletion per user.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Endpoint  string    `json:"endpoint"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryRepository is the port for the request history log.
type HistoryRepository interface {
	Append(ctx context.Context, userID int64, endpoint string, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]HistoryEntry, error)
	ClearByUser(ctx context.Context, userID int64) error
}
