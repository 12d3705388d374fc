package review

import (
	"context"
	"log/slog"

	"bookreviews/internal/platform/apperr"
)

// Service owns the review lifecycle: one review per user and book, owner-only changes.
type Service struct {
	repo       Repository
	logger     *slog.Logger
	invalidate CacheInvalidator
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// WithInvalidator registers the cache to flush after review writes.
func (s *Service) WithInvalidator(c CacheInvalidator) *Service {
	s.invalidate = c
	return s
}

// Add creates the identity's review of a book.
func (s *Service) Add(ctx context.Context, identity Identity, bookID string, rating int, comment string) (Review, error) {
	if identity.ID == "" {
		return Review{}, apperr.Unauthorized("Authentication required")
	}
	if err := validateRating(rating); err != nil {
		return Review{}, err
	}

	ok, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return Review{}, err
	}
	if !ok {
		return Review{}, apperr.NotFound("Book not found")
	}

	// The unique index on (user_id, book_id) catches the race this check leaves open.
	exists, err := s.repo.ExistsForUserAndBook(ctx, identity.ID, bookID)
	if err != nil {
		return Review{}, err
	}
	if exists {
		return Review{}, errAlreadyReviewed()
	}

	created, err := s.repo.Create(ctx, Review{
		UserID:  identity.ID,
		BookID:  bookID,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		return Review{}, err
	}
	s.flush(ctx, bookID)
	return created, nil
}

func errAlreadyReviewed() *apperr.Error {
	return apperr.Conflict("You have already reviewed this book.")
}

// Update applies the present fields of p to a review owned by identity.
func (s *Service) Update(ctx context.Context, identity Identity, reviewID string, p Patch) (Review, error) {
	current, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	if !CanMutate(identity, current) {
		return Review{}, apperr.Forbidden("You can update only your own review")
	}
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return Review{}, err
		}
	}

	updated, err := s.repo.Update(ctx, p.Apply(current))
	if err != nil {
		return Review{}, err
	}
	s.flush(ctx, current.BookID)
	return updated, nil
}

// Delete removes a review owned by identity.
func (s *Service) Delete(ctx context.Context, identity Identity, reviewID string) error {
	current, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !CanMutate(identity, current) {
		return apperr.Forbidden("You can delete only your own review")
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.flush(ctx, current.BookID)
	return nil
}

// Get returns a single review.
func (s *Service) Get(ctx context.Context, reviewID string) (Review, error) {
	return s.repo.FindByID(ctx, reviewID)
}

// ListForBook returns every review of a book, oldest first.
func (s *Service) ListForBook(ctx context.Context, bookID string) ([]Review, error) {
	ok, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("Book not found")
	}

	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

func (s *Service) flush(ctx context.Context, bookID string) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate.Invalidate(ctx, bookID); err != nil {
		s.logger.WarnContext(ctx, "book detail cache invalidation failed",
			slog.String("book_id", bookID),
			slog.Any("error", err),
		)
	}
}
