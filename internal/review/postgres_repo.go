package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreviews/internal/platform/apperr"
	"bookreviews/internal/platform/database"
)

// uniqueUserBook is the index enforcing one review per user and book.
const uniqueUserBook = "reviews_user_book_key"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanReview(row pgx.CollectableRow) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.BookID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

const reviewColumns = "id, user_id, book_id, rating, comment, created_at, updated_at"

func (r *PostgresRepo) queryOne(ctx context.Context, failMsg, query string, args ...any) (Review, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return Review{}, apperr.Persistence(failMsg, err)
	}
	rv, err := pgx.CollectExactlyOneRow(rows, scanReview)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound("Review not found")
		}
		return Review{}, apperr.Persistence(failMsg, err)
	}
	return rv, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Review, error) {
	if !validID(id) {
		return Review{}, apperr.NotFound("Review not found")
	}
	return r.queryOne(ctx, "Failed to load review",
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
}

func (r *PostgresRepo) ExistsForUserAndBook(ctx context.Context, userID, bookID string) (bool, error) {
	if !validID(bookID) {
		return false, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Persistence("Failed to check existing review", err)
	}
	return exists, nil
}

func (r *PostgresRepo) BookExists(ctx context.Context, bookID string) (bool, error) {
	if !validID(bookID) {
		return false, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
		return false, apperr.Persistence("Failed to load book", err)
	}
	return exists, nil
}

func (r *PostgresRepo) Create(ctx context.Context, rv Review) (Review, error) {
	created, err := r.queryOne(ctx, "Failed to create review", `
		INSERT INTO reviews (user_id, book_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reviewColumns,
		rv.UserID, rv.BookID, rv.Rating, rv.Comment,
	)
	if err == nil {
		return created, nil
	}

	cause := errors.Unwrap(err)
	switch {
	case database.IsUniqueViolation(cause, uniqueUserBook):
		return Review{}, errAlreadyReviewed().WithCause(cause)
	case database.IsForeignKeyViolation(cause):
		return Review{}, apperr.NotFound("Book not found").WithCause(cause)
	default:
		return Review{}, err
	}
}

func (r *PostgresRepo) Update(ctx context.Context, rv Review) (Review, error) {
	return r.queryOne(ctx, "Failed to update review", `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+reviewColumns,
		rv.ID, rv.Rating, rv.Comment,
	)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("Review not found")
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return apperr.Persistence("Failed to delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review not found")
	}
	return nil
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]Review, error) {
	if !validID(bookID) {
		return []Review{}, nil
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id = $1 ORDER BY created_at ASC, id ASC`, bookID)
	if err != nil {
		return nil, apperr.Persistence("Failed to list reviews", err)
	}
	reviews, err := pgx.CollectRows(rows, scanReview)
	if err != nil {
		return nil, apperr.Persistence("Failed to list reviews", err)
	}
	return reviews, nil
}
