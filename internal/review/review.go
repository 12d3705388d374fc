package review

import (
	"time"

	"bookreviews/internal/platform/apperr"
)

const (
	MinRating = 1
	MaxRating = 5
)

// DeletedMessage confirms a successful Delete.
const DeletedMessage = "Review deleted successfully"

// Review is one user's rating and comment for a book.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookID    string    `json:"bookId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller. Users are managed elsewhere, only the id is known here.
type Identity struct {
	ID string
}

// Patch holds the fields present in an update. A nil field keeps the stored value.
type Patch struct {
	Rating  *int
	Comment *string
}

// Apply returns r with the present fields replaced.
func (p Patch) Apply(r Review) Review {
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = *p.Comment
	}
	return r
}

// CanMutate reports whether identity may update or delete r.
func CanMutate(identity Identity, r Review) bool {
	return identity.ID != "" && identity.ID == r.UserID
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperr.Validation("Rating must be between 1 and 5")
	}
	return nil
}
