package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bookreviews/internal/book"
	"bookreviews/internal/config"
	"bookreviews/internal/httpx"
	"bookreviews/internal/platform/cache"
	"bookreviews/internal/platform/database"
	"bookreviews/internal/platform/logger"
	"bookreviews/internal/platform/metrics"
	"bookreviews/internal/review"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Environment: cfg.Env,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	pool, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.PingTimeout)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connection OK", slog.String("dsn", database.RedactDSN(cfg.Database.DSN)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bookService := book.NewService(book.NewPostgresRepo(pool, cfg.Database.QueryTimeout), log)
	reviewService := review.NewService(review.NewPostgresRepo(pool, cfg.Database.QueryTimeout), log)

	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("redis unavailable, book detail cache disabled", slog.Any("error", err))
		} else {
			defer client.Close()
			detailCache := book.NewRedisDetailCache(client, cfg.Redis.TTL)
			bookService.WithCache(detailCache, metrics.NewCache(reg))
			reviewService.WithInvalidator(detailCache)
			log.Info("book detail cache enabled", slog.String("addr", cfg.Redis.Addr))
		}
	}

	handler := newRouter(routerDeps{
		Books:          book.NewHTTPHandler(bookService, log),
		Reviews:        review.NewHTTPHandler(reviewService, log),
		Logger:         log,
		Metrics:        metrics.NewHTTP(reg),
		Gatherer:       reg,
		Ready:          pool.Ping,
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimiter:    httpx.NewRateLimitMiddleware(ctx, cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst, cfg.Limits.TrustProxy),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
		EnableHSTS:     cfg.Env == "production",
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
