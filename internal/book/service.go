package book

import (
	"context"
	"log/slog"

	"bookreviews/internal/platform/apperr"
	"bookreviews/internal/platform/metrics"
)

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	cache   DetailCache
	metrics *metrics.Cache
}

// NewService creates a new book service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// WithCache enables read-through caching of book details. m may be nil.
func (s *Service) WithCache(c DetailCache, m *metrics.Cache) *Service {
	s.cache = c
	s.metrics = m
	return s
}

// CreateBook stores a new book and returns it with its id and timestamps.
func (s *Service) CreateBook(ctx context.Context, nb NewBook) (Book, error) {
	return s.repo.Create(ctx, nb)
}

// List returns one page of books matching the author and genre filters.
func (s *Service) List(ctx context.Context, p ListParams) (Page, error) {
	p = p.Normalize()

	books, total, err := s.repo.List(ctx, p)
	if err != nil {
		return Page{}, err
	}
	if books == nil {
		books = []Book{}
	}
	return Page{
		Total: total,
		Pages: pageCount(total, p.Limit),
		Data:  books,
	}, nil
}

// GetByID returns the book with its reviews and average rating.
func (s *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	if d, ok := s.cachedDetail(ctx, id); ok {
		return d, nil
	}
	gen, cacheable := s.generation(ctx, id)

	b, reviews, agg, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if reviews == nil {
		reviews = []ReviewSummary{}
	}
	d := Detail{
		Book:          b,
		Reviews:       reviews,
		AverageRating: FormatAverage(agg),
	}

	if cacheable {
		stored, err := s.cache.Set(ctx, d, gen)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "book detail cache set failed", slog.String("book_id", id), slog.Any("error", err))
		case !stored:
			s.logger.DebugContext(ctx, "book detail changed while loading, not cached", slog.String("book_id", id))
		}
	}
	return d, nil
}

// generation must be read before the store so a concurrent Invalidate is seen by Set.
func (s *Service) generation(ctx context.Context, id string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "book detail cache generation failed", slog.String("book_id", id), slog.Any("error", err))
		return 0, false
	}
	return gen, true
}

func (s *Service) cachedDetail(ctx context.Context, id string) (Detail, bool) {
	if s.cache == nil {
		return Detail{}, false
	}
	d, ok, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		s.observe((*metrics.Cache).Error)
		s.logger.WarnContext(ctx, "book detail cache get failed", slog.String("book_id", id), slog.Any("error", err))
		return Detail{}, false
	case ok:
		s.observe((*metrics.Cache).Hit)
		return d, true
	default:
		s.observe((*metrics.Cache).Miss)
		return Detail{}, false
	}
}

func (s *Service) observe(fn func(*metrics.Cache)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}

// Search returns books whose title or author contains query, case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]Book, error) {
	if query == "" {
		return nil, apperr.Validation("Search query is required")
	}

	books, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}
