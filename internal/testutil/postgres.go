package testutil

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"

	"bookreviews/db"
	"bookreviews/internal/platform/database"
)

// SetupTestDB connects to TEST_DB_DSN and migrates it to the latest schema.
// The test is skipped when no database is reachable. Tables are not emptied,
// since packages share the database; tests tag their rows with UniqueTag.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping test: TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := database.Open(ctx, dsn, 2*time.Second)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	migrations, err := fs.Sub(db.Migrations, db.MigrationsDir)
	if err != nil {
		t.Fatalf("migrations fs: %v", err)
	}
	// Test packages run in parallel against one database.
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		t.Fatalf("migration locker: %v", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations, goose.WithSessionLocker(locker))
	if err != nil {
		t.Fatalf("migration provider: %v", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool
}

// UniqueTag returns a short random token for keeping test rows apart.
func UniqueTag() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
