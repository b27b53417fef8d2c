// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sortstore/internal/domain"
)

// DB implements all domain repositories in memory.
type DB struct {
	mu      sync.Mutex
	users   []*domain.User
	arrays  map[int64][]int
	history []domain.HistoryEntry

	userIDCounter    int64
	historyIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{arrays: make(map[int64][]int)}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.ArrayRepository = (*DB)(nil)
var _ domain.HistoryRepository = (*DB)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// GetByToken retrieves a user by their current session token.
func (db *DB) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Token == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash, token string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		Token:        token,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)

	copied := *u
	return &copied, nil
}

// UpdateToken replaces the user's current token.
func (db *DB) UpdateToken(ctx context.Context, userID int64, token string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == userID {
			u.Token = token
			return nil
		}
	}
	return nil
}

// UpdateCredentials replaces the user's password hash and token.
func (db *DB) UpdateCredentials(ctx context.Context, userID int64, passwordHash, token string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			u.Token = token
			return nil
		}
	}
	return nil
}

// --- ArrayRepository ---

// GetByUserID returns the user's array record, or nil if none is stored.
func (db *DB) GetByUserID(ctx context.Context, userID int64) (*domain.ArrayRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	values, ok := db.arrays[userID]
	if !ok {
		return nil, nil
	}
	copied := make([]int, len(values))
	copy(copied, values)
	return &domain.ArrayRecord{UserID: userID, Values: copied}, nil
}

// Save stores the user's array, replacing any existing one.
func (db *DB) Save(ctx context.Context, userID int64, values []int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	copied := make([]int, len(values))
	copy(copied, values)
	db.arrays[userID] = copied
	return nil
}

// --- HistoryRepository ---

// Append adds a history entry and returns its id.
func (db *DB) Append(ctx context.Context, userID int64, endpoint string, at time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.historyIDCounter++
	db.history = append(db.history, domain.HistoryEntry{
		ID:        db.historyIDCounter,
		UserID:    userID,
		Endpoint:  endpoint,
		Timestamp: at.UTC(),
	})
	return db.historyIDCounter, nil
}

// ListByUser returns the user's entries newest first, id descending on
// equal timestamps.
func (db *DB) ListByUser(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.HistoryEntry, 0)
	for _, e := range db.history {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// ClearByUser deletes all of the user's entries.
func (db *DB) ClearByUser(ctx context.Context, userID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.history[:0]
	for _, e := range db.history {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	db.history = kept
	return nil
}
