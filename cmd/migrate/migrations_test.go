package main

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreviews/db"
)

func TestCollectMigrations_ParsesEmbeddedMigrations(t *testing.T) {
	goose.SetBaseFS(db.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(db.MigrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	assert.Len(t, migrations, 2)
}

func TestReviewsMigration_HasUniqueUserBookIndex(t *testing.T) {
	b, err := fs.ReadFile(db.Migrations, db.MigrationsDir+"/00002_create_reviews.sql")
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, "reviews_user_book_key ON reviews (user_id, book_id)")
	assert.Contains(t, s, "ON DELETE CASCADE")
	assert.True(t, strings.Contains(s, "UNIQUE INDEX"))
}
