// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents a registered account. Token is the single currently
// valid session token; issuing a new one replaces it for all sessions.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Token        string
	CreatedAt    time.Time
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByToken(ctx context.Context, token string) (*User, error)
	Create(ctx context.Context, username, passwordHash, token string) (*User, error)
	UpdateToken(ctx context.Context, userID int64, token string) error
	UpdateCredentials(ctx context.Context, userID int64, passwordHash, token string) error
}
