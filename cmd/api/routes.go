package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookreviews/internal/book"
	"bookreviews/internal/httpx"
	"bookreviews/internal/platform/metrics"
	"bookreviews/internal/review"
)

type routerDeps struct {
	Books   *book.HTTPHandler
	Reviews *review.HTTPHandler

	Logger   *slog.Logger
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
	// Ready reports whether the store can serve requests.
	Ready func(ctx context.Context) error

	JWTSecret      string
	RateLimiter    *httpx.RateLimitMiddleware
	AllowedOrigins []string
	MaxBodyBytes   int64
	EnableHSTS     bool
}

func newRouter(d routerDeps) http.Handler {
	router := http.NewServeMux()
	auth := httpx.AuthMiddleware(d.JWTSecret)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	router.Handle("POST /api/books", protected(d.Books.Create))
	router.HandleFunc("GET /api/books", d.Books.List)
	router.HandleFunc("GET /api/search", d.Books.Search)
	router.HandleFunc("GET /api/books/{id}", d.Books.Get)

	router.Handle("POST /api/books/{id}/reviews", protected(d.Reviews.Create))
	router.HandleFunc("GET /api/books/{id}/reviews", d.Reviews.ListForBook)
	router.HandleFunc("GET /api/reviews/{id}", d.Reviews.Get)
	router.Handle("PUT /api/reviews/{id}", protected(d.Reviews.Update))
	router.Handle("PATCH /api/reviews/{id}", protected(d.Reviews.Update))
	router.Handle("DELETE /api/reviews/{id}", protected(d.Reviews.Delete))

	mws := []httpx.Middleware{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.Logger),
		// nothing below may copy the request, the metrics label is read from r.Pattern
		httpx.MetricsMiddleware(d.Metrics),
		httpx.RecoveryMiddleware(d.Logger),
		httpx.SecurityHeadersMiddleware(d.EnableHSTS),
		httpx.CORSMiddleware(d.AllowedOrigins),
	}
	if d.RateLimiter != nil {
		mws = append(mws, d.RateLimiter.Middleware)
	}
	mws = append(mws, httpx.RequestSizeLimitMiddleware(d.MaxBodyBytes))

	return httpx.Chain(router, mws...)
}
