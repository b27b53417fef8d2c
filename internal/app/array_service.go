package app

import (
	"context"
	"errors"
	"math/rand/v2"

	"sortstore/internal/domain"
)

var (
	// ErrInvalidSize indicates a non-positive requested array size.
	ErrInvalidSize = errors.New("size must be > 0")
	// ErrArrayNotFound indicates the user has no stored array yet.
	ErrArrayNotFound = errors.New("array not found")
	// ErrNothingToUpdate indicates a patch with no effective parameters.
	ErrNothingToUpdate = errors.New("nothing to update")
)

// ArrayService encapsulates the per-user integer array use cases.
type ArrayService struct {
	repo domain.ArrayRepository
}

// NewArrayService creates an ArrayService backed by the given repository.
func NewArrayService(repo domain.ArrayRepository) *ArrayService {
	return &ArrayService{repo: repo}
}

// Create generates size random values in [0,100) and stores them,
// replacing any existing array for the user.
func (s *ArrayService) Create(ctx context.Context, userID int64, size int) ([]int, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	values := randomValues(size)
	if err := s.repo.Save(ctx, userID, values); err != nil {
		return nil, err
	}
	return values, nil
}

// Patch updates an existing array. A positive newSize regenerates the
// array with random values; non-empty newValues replaces it verbatim.
// When both are given newValues wins, since it is applied second.
func (s *ArrayService) Patch(ctx context.Context, userID int64, newSize *int, newValues []int) ([]int, error) {
	rec, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrArrayNotFound
	}

	values := rec.Values
	updated := false

	if newSize != nil && *newSize > 0 {
		values = randomValues(*newSize)
		updated = true
	}
	if len(newValues) > 0 {
		values = newValues
		updated = true
	}
	if !updated {
		return nil, ErrNothingToUpdate
	}

	if err := s.repo.Save(ctx, userID, values); err != nil {
		return nil, err
	}
	return values, nil
}

// Get returns the user's stored array.
func (s *ArrayService) Get(ctx context.Context, userID int64) ([]int, error) {
	rec, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrArrayNotFound
	}
	return rec.Values, nil
}

// SortShell sorts the user's array ascending with Shell sort and persists
// the sorted result.
func (s *ArrayService) SortShell(ctx context.Context, userID int64) ([]int, error) {
	rec, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrArrayNotFound
	}

	sorted := domain.ShellSort(rec.Values)
	if err := s.repo.Save(ctx, userID, sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}

func randomValues(size int) []int {
	out := make([]int, size)
	for i := range out {
		out[i] = rand.IntN(100)
	}
	return out
}
