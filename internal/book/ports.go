package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, nb NewBook) (Book, error)
	List(ctx context.Context, p ListParams) ([]Book, int, error)
	// GetDetail reads the book, its reviews and their aggregate from one snapshot.
	GetDetail(ctx context.Context, id string) (Book, []ReviewSummary, Aggregate, error)
	Search(ctx context.Context, query string) ([]Book, error)
}

// DetailCache stores rendered book details. A miss is (Detail{}, false, nil).
//
// Every Invalidate bumps the book's generation. Set stores d only while the
// generation still equals gen, so a detail read before a review write never
// lands in the cache after that write's Invalidate.
type DetailCache interface {
	Get(ctx context.Context, id string) (Detail, bool, error)
	Generation(ctx context.Context, id string) (int64, error)
	Set(ctx context.Context, d Detail, gen int64) (bool, error)
	Invalidate(ctx context.Context, id string) error
}
