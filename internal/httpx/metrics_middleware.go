package httpx

import (
	"net/http"
	"time"

	"bookreviews/internal/platform/metrics"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latency by route pattern.
// It must sit outside the ServeMux without any request copy in between, since
// the mux fills in r.Pattern on the request it receives.
func MetricsMiddleware(m *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			defer func() {
				route := r.Pattern
				if route == "" {
					route = unmatchedRoute
				}
				m.Observe(r.Method, route, rw.statusCode, time.Since(start))
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
