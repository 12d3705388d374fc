package book

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreviews/internal/platform/apperr"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var bookColumns = []string{"id", "title", "author", "genre", "description", "created_at", "updated_at"}

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

func scanBook(row pgx.CollectableRow) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *PostgresRepo) Create(ctx context.Context, nb NewBook) (Book, error) {
	query, args, err := psql.Insert("books").
		Columns("title", "author", "genre", "description").
		Values(nb.Title, nb.Author, nb.Genre, nb.Description).
		Suffix("RETURNING " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return Book{}, apperr.Persistence("Failed to create book", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return Book{}, apperr.Persistence("Failed to create book", err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if err != nil {
		return Book{}, apperr.Persistence("Failed to create book", err)
	}
	return b, nil
}

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

func listFilter(p ListParams) sq.And {
	var cond sq.And
	if p.Author != "" {
		cond = append(cond, sq.ILike{"author": containsPattern(p.Author)})
	}
	if p.Genre != "" {
		cond = append(cond, sq.ILike{"genre": containsPattern(p.Genre)})
	}
	return cond
}

func buildListQueries(p ListParams) (count, data sq.SelectBuilder) {
	count = psql.Select("COUNT(*)").From("books")
	data = psql.Select(bookColumns...).From("books").
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset()))

	if cond := listFilter(p); len(cond) > 0 {
		count = count.Where(cond)
		data = data.Where(cond)
	}
	return count, data
}

func (r *PostgresRepo) List(ctx context.Context, p ListParams) ([]Book, int, error) {
	countB, dataB := buildListQueries(p)

	countSQL, countArgs, err := countB.ToSql()
	if err != nil {
		return nil, 0, apperr.Persistence("Failed to list books", err)
	}
	dataSQL, dataArgs, err := dataB.ToSql()
	if err != nil {
		return nil, 0, apperr.Persistence("Failed to list books", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperr.Persistence("Failed to list books", err)
	}

	rows, err := r.db.Query(timeoutCtx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, apperr.Persistence("Failed to list books", err)
	}
	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, 0, apperr.Persistence("Failed to list books", err)
	}
	return books, total, nil
}

func buildSearchQuery(query string) sq.SelectBuilder {
	pattern := containsPattern(query)
	return psql.Select(bookColumns...).From("books").
		Where(sq.Or{sq.ILike{"title": pattern}, sq.ILike{"author": pattern}}).
		OrderBy("created_at ASC", "id ASC")
}

func (r *PostgresRepo) Search(ctx context.Context, query string) ([]Book, error) {
	sqlStr, args, err := buildSearchQuery(query).ToSql()
	if err != nil {
		return nil, apperr.Persistence("Failed to search books", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sqlStr, args...)
	if err != nil {
		return nil, apperr.Persistence("Failed to search books", err)
	}
	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, apperr.Persistence("Failed to search books", err)
	}
	return books, nil
}

const (
	bookByIDSQL = `
		SELECT id, title, author, genre, description, created_at, updated_at
		FROM books
		WHERE id = $1`

	reviewsByBookSQL = `
		SELECT id, user_id, rating, comment, created_at
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at ASC, id ASC`

	reviewAggregateSQL = `
		SELECT COUNT(*), COALESCE(SUM(rating), 0)
		FROM reviews
		WHERE book_id = $1`
)

// GetDetail runs its three reads in one read-only repeatable read transaction,
// so the aggregate always describes the returned review set.
func (r *PostgresRepo) GetDetail(ctx context.Context, id string) (Book, []ReviewSummary, Aggregate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, nil, Aggregate{}, apperr.NotFound("Book not found")
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load book", err)
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	rows, err := tx.Query(timeoutCtx, bookByIDSQL, id)
	if err != nil {
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load book", err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, nil, Aggregate{}, apperr.NotFound("Book not found")
		}
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load book", err)
	}

	rows, err = tx.Query(timeoutCtx, reviewsByBookSQL, id)
	if err != nil {
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load reviews", err)
	}
	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ReviewSummary, error) {
		var rs ReviewSummary
		err := row.Scan(&rs.ID, &rs.UserID, &rs.Rating, &rs.Comment, &rs.CreatedAt)
		return rs, err
	})
	if err != nil {
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load reviews", err)
	}

	var agg Aggregate
	if err := tx.QueryRow(timeoutCtx, reviewAggregateSQL, id).Scan(&agg.Count, &agg.Sum); err != nil {
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load reviews", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Book{}, nil, Aggregate{}, apperr.Persistence("Failed to load book", err)
	}
	return b, reviews, agg, nil
}
