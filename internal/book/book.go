package book

import (
	"fmt"
	"time"
)

// Pagination defaults for List.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Book represents a catalog entry.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewBook carries the caller supplied fields of a book. Missing fields are stored empty.
type NewBook struct {
	Title       string
	Author      string
	Genre       string
	Description string
}

// ListParams defines filters and pagination for listing books.
type ListParams struct {
	Page   int
	Limit  int
	Author string
	Genre  string
}

// Normalize applies the pagination defaults. Zero or negative values fall back
// to the default. Any positive limit is kept as given.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of List results.
type Page struct {
	Total int    `json:"total"`
	Pages int    `json:"pages"`
	Data  []Book `json:"data"`
}

// ReviewSummary is the review projection embedded in a book detail.
type ReviewSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Detail is a book with all of its reviews and their mean rating.
type Detail struct {
	Book
	Reviews       []ReviewSummary `json:"reviews"`
	AverageRating string          `json:"averageRating"`
}

// Aggregate is the review count and rating sum read alongside the review set.
type Aggregate struct {
	Count int64
	Sum   int64
}

// FormatAverage renders sum/count with two fraction digits, rounding half up.
// Integer arithmetic keeps "4.50" from drifting to "4.49".
func FormatAverage(a Aggregate) string {
	if a.Count <= 0 {
		return "0.00"
	}
	hundredths := (a.Sum*200 + a.Count) / (2 * a.Count)
	return fmt.Sprintf("%d.%02d", hundredths/100, hundredths%100)
}

func pageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
