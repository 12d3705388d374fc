// Package db embeds the SQL migrations so binaries can migrate without the source tree.
package db

import "embed"

// MigrationsDir is the directory of the migrations inside Migrations.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
