package main

import (
	"io/fs"
	"os"

	"bookreviews/db"
)

// migrationSource returns the filesystem and directory goose reads from.
// MIGRATIONS_DIR switches from the embedded files to a directory on disk.
func migrationSource() (fs.FS, string) {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return nil, v
	}
	return db.Migrations, db.MigrationsDir
}

// createDir is where new migration files are written.
func createDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
