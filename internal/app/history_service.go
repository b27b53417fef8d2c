package app

import (
	"context"
	"time"

	"sortstore/internal/domain"
)

// HistoryService encapsulates the request history log use cases.
type HistoryService struct {
	repo domain.HistoryRepository
}

// NewHistoryService creates a HistoryService backed by the given repository.
func NewHistoryService(repo domain.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Record appends an entry for a handled request at the current UTC time.
func (s *HistoryService) Record(ctx context.Context, userID int64, endpoint string) (int64, error) {
	return s.repo.Append(ctx, userID, endpoint, time.Now().UTC())
}

// List returns the user's entries, newest first.
func (s *HistoryService) List(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Clear deletes all of the user's entries.
func (s *HistoryService) Clear(ctx context.Context, userID int64) error {
	return s.repo.ClearByUser(ctx, userID)
}
