package main

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"bookreviews/internal/book"
	"bookreviews/internal/platform/apperr"
	"bookreviews/internal/review"
)

// memStore backs both repositories so routing tests can run without Postgres.
type memStore struct {
	mu      sync.Mutex
	books   []book.Book
	reviews []review.Review
}

type memBooks struct{ s *memStore }
type memReviews struct{ s *memStore }

func (s *memStore) findBook(id string) (book.Book, bool) {
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return book.Book{}, false
}

func (m memBooks) Create(_ context.Context, nb book.NewBook) (book.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now()
	b := book.Book{ID: uuid.NewString(), Title: nb.Title, Author: nb.Author, Genre: nb.Genre, Description: nb.Description, CreatedAt: now, UpdatedAt: now}
	m.s.books = append(m.s.books, b)
	return b, nil
}

// containsFold matches like ILIKE '%needle%'.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (m memBooks) List(_ context.Context, p book.ListParams) ([]book.Book, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	matched := lo.Filter(m.s.books, func(b book.Book, _ int) bool {
		return (p.Author == "" || containsFold(b.Author, p.Author)) &&
			(p.Genre == "" || containsFold(b.Genre, p.Genre))
	})
	total := len(matched)
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return slices.Clone(matched[start:end]), total, nil
}

func (m memBooks) GetDetail(_ context.Context, id string) (book.Book, []book.ReviewSummary, book.Aggregate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b, ok := m.s.findBook(id)
	if !ok {
		return book.Book{}, nil, book.Aggregate{}, apperr.NotFound("Book not found")
	}
	var (
		out []book.ReviewSummary
		agg book.Aggregate
	)
	for _, r := range m.s.reviews {
		if r.BookID != id {
			continue
		}
		out = append(out, book.ReviewSummary{ID: r.ID, UserID: r.UserID, Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt})
		agg.Count++
		agg.Sum += int64(r.Rating)
	}
	return b, out, agg, nil
}

func (m memBooks) Search(_ context.Context, query string) ([]book.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return lo.Filter(m.s.books, func(b book.Book, _ int) bool {
		return containsFold(b.Title, query) || containsFold(b.Author, query)
	}), nil
}

func (m memReviews) FindByID(_ context.Context, id string) (review.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return review.Review{}, apperr.NotFound("Review not found")
}

func (m memReviews) ExistsForUserAndBook(_ context.Context, userID, bookID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return slices.ContainsFunc(m.s.reviews, func(r review.Review) bool {
		return r.UserID == userID && r.BookID == bookID
	}), nil
}

func (m memReviews) BookExists(_ context.Context, bookID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.findBook(bookID)
	return ok, nil
}

func (m memReviews) Create(_ context.Context, r review.Review) (review.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.s.reviews = append(m.s.reviews, r)
	return r, nil
}

func (m memReviews) Update(_ context.Context, r review.Review) (review.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.reviews {
		if m.s.reviews[i].ID == r.ID {
			r.UpdatedAt = time.Now()
			m.s.reviews[i] = r
			return r, nil
		}
	}
	return review.Review{}, apperr.NotFound("Review not found")
}

func (m memReviews) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	before := len(m.s.reviews)
	m.s.reviews = slices.DeleteFunc(m.s.reviews, func(r review.Review) bool { return r.ID == id })
	if len(m.s.reviews) == before {
		return apperr.NotFound("Review not found")
	}
	return nil
}

func (m memReviews) ListByBook(_ context.Context, bookID string) ([]review.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []review.Review
	for _, r := range m.s.reviews {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}
