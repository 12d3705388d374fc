package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"bookreviews/internal/config"
	"bookreviews/internal/platform/crypto"
	"bookreviews/internal/platform/database"
	"bookreviews/internal/platform/logger"
)

var (
	genres  = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	authors = []string{"Frank Herbert", "Ursula K. Le Guin", "Octavia Butler", "Isaac Asimov", "Mary Shelley", "Italo Calvino", "Toni Morrison", "Jorge Luis Borges"}
	words   = []string{"Adventure", "Mystery", "Journey", "Discovery", "Legacy", "Chronicles", "Secrets", "Tales", "Quest", "Saga", "Echoes", "Shadows", "Light", "Dreams", "Visions"}
)

// demoUsers are the identities that author the seeded reviews.
var demoUsers = []string{"demo-alice", "demo-bob", "demo-carol", "demo-dave", "demo-erin"}

type seedBook struct {
	Title, Author, Genre, Description string
}

func main() {
	count := flag.Int("books", 200, "number of books to insert")
	maxReviews := flag.Int("max-reviews", len(demoUsers), "upper bound of reviews per book")
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.LoadCommand()
	log := logger.New(logger.Config{Level: logger.ParseLevel(cfg.LogLevel)})

	ctx := context.Background()
	pool, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.PingTimeout)
	if err != nil {
		log.Error("connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	books := generateBooks(rng, *count)

	ids, err := insertBooks(ctx, pool, books)
	if err != nil {
		log.Error("insert books", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("books inserted", slog.Int("count", len(ids)))

	reviews, err := insertReviews(ctx, pool, rng, ids, *maxReviews)
	if err != nil {
		log.Error("insert reviews", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("reviews inserted", slog.Int("count", reviews))

	printDemoTokens(log, cfg.Auth.JWTSecret)
}

func generateBooks(rng *rand.Rand, count int) []seedBook {
	return lo.Times(count, func(i int) seedBook {
		word := words[rng.Intn(len(words))]
		return seedBook{
			Title:       fmt.Sprintf("Book Title %d - %s", i+1, word),
			Author:      authors[rng.Intn(len(authors))],
			Genre:       genres[rng.Intn(len(genres))],
			Description: fmt.Sprintf("This is a book about %s.", word),
		}
	})
}

func insertBooks(ctx context.Context, pool *pgxpool.Pool, books []seedBook) ([]string, error) {
	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(`INSERT INTO books (title, author, genre, description) VALUES ($1, $2, $3, $4) RETURNING id`,
			b.Title, b.Author, b.Genre, b.Description)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	ids := make([]string, 0, len(books))
	for range books {
		var id string
		if err := results.QueryRow().Scan(&id); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// insertReviews gives each book up to maxReviews reviews from distinct demo users.
func insertReviews(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, bookIDs []string, maxReviews int) (int, error) {
	maxReviews = min(maxReviews, len(demoUsers))
	batch := &pgx.Batch{}
	for _, bookID := range bookIDs {
		n := rng.Intn(maxReviews + 1)
		for _, user := range lo.Samples(demoUsers, n) {
			batch.Queue(`INSERT INTO reviews (user_id, book_id, rating, comment) VALUES ($1, $2, $3, $4)
				ON CONFLICT (user_id, book_id) DO NOTHING`,
				user, bookID, 1+rng.Intn(5), "Seeded review")
		}
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func printDemoTokens(log *slog.Logger, secret string) {
	if secret == "" {
		log.Info("JWT_SECRET not set, skipping demo tokens")
		return
	}
	for _, user := range demoUsers {
		token, _, err := crypto.GenerateToken(secret, user, "USER", 24*time.Hour)
		if err != nil {
			log.Error("generate token", slog.String("user", user), slog.Any("error", err))
			continue
		}
		fmt.Printf("%s\t%s\n", user, token)
	}
}
