// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP collects per-route request counts and latencies.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors on reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Observe records one finished request.
func (m *HTTP) Observe(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Cache counts book detail cache lookups by result (hit, miss, error).
type Cache struct {
	lookups *prometheus.CounterVec
}

// NewCache registers the cache collectors on reg.
func NewCache(reg prometheus.Registerer) *Cache {
	c := &Cache{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "book_detail_cache_lookups_total",
			Help: "Book detail cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(c.lookups)
	return c
}

func (c *Cache) Hit()   { c.lookups.WithLabelValues("hit").Inc() }
func (c *Cache) Miss()  { c.lookups.WithLabelValues("miss").Inc() }
func (c *Cache) Error() { c.lookups.WithLabelValues("error").Inc() }
