// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"strings"

	"sortstore/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyCredentials indicates a blank username or password on registration.
	ErrEmptyCredentials = errors.New("username and password required")
	// ErrUserExists indicates that the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates that the provided username or password was
	// incorrect. Unknown usernames and wrong passwords are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmptyPassword indicates a blank new password on a password change.
	ErrEmptyPassword = errors.New("new password is required")
)

// AuthService handles registration, login, and token management.
type AuthService struct {
	users domain.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with a bcrypt password hash and a fresh token.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return "", ErrEmptyCredentials
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	token := generateToken()
	if _, err := s.users.Create(ctx, username, string(hash), token); err != nil {
		return "", err
	}
	return token, nil
}

// Login authenticates a user and rotates their token, invalidating the
// previous one.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := generateToken()
	if err := s.users.UpdateToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

// ChangePassword stores a new bcrypt hash and issues a fresh token. The
// token that authorized the call stops working as a result.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, newPassword string) (string, error) {
	if strings.TrimSpace(newPassword) == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	token := generateToken()
	if err := s.users.UpdateCredentials(ctx, userID, string(hash), token); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks up the user owning a token. A missing or unknown token
// yields (nil, nil).
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	return s.users.GetByToken(ctx, token)
}

// generateToken returns a 32-character hex token backed by a random v4
// UUID, so it is URL- and header-safe.
func generateToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
