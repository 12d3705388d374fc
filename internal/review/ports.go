package review

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=review

// Repository defines the contract for review storage.
type Repository interface {
	FindByID(ctx context.Context, id string) (Review, error)
	ExistsForUserAndBook(ctx context.Context, userID, bookID string) (bool, error)
	BookExists(ctx context.Context, bookID string) (bool, error)
	Create(ctx context.Context, r Review) (Review, error)
	Update(ctx context.Context, r Review) (Review, error)
	Delete(ctx context.Context, id string) error
	ListByBook(ctx context.Context, bookID string) ([]Review, error)
}

// CacheInvalidator drops cached views of a book after its reviews change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, bookID string) error
}
