package domain

import "context"

// ArrayRecord is the single integer sequence owned by a user.
type ArrayRecord struct {
	UserID int64 `json:"userId"`
	Values []int `json:"values"`
}

// ArrayRepository is the port for array persistence. A user owns at most
// one record; Save replaces it in full.
type ArrayRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*ArrayRecord, error)
	Save(ctx context.Context, userID int64, values []int) error
}
