package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookreviews/internal/config"
	"bookreviews/internal/platform/database"
	"bookreviews/internal/platform/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.LoadCommand()
	log := logger.New(logger.Config{Level: logger.ParseLevel(cfg.LogLevel)})

	if err := run(context.Background(), log, cfg.Database, *command, *name); err != nil {
		log.Error("migrate failed", slog.String("command", *command), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, db config.Database, command, name string) error {
	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		goose.SetBaseFS(nil)
		if err := goose.Create(nil, createDir(), name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		log.Info("migration created", slog.String("name", name))
		return nil
	}

	pool, err := database.Open(ctx, db.DSN, db.PingTimeout)
	if err != nil {
		return err
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	fsys, dir := migrationSource()
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return migrate(ctx, log, sqlDB, command, dir)
}

func migrate(ctx context.Context, log *slog.Logger, sqlDB *sql.DB, command, dir string) error {
	switch command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		log.Info("migration rolled back")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
	return nil
}
