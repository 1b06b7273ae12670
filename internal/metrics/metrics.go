// Package metrics exposes the Prometheus registry of the server: HTTP request
// metrics, Go runtime metrics and the quote refresh counters.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	quoteFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_fetches_total",
			Help: "Per-symbol quote fetches by outcome",
		},
		[]string{"status"},
	)

	quoteRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_refreshes_total",
			Help: "Quote refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	quoteRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_refresh_duration_seconds",
			Help:    "Duration of completed refresh cycles",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	priceLogWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_log_entries_written_total",
			Help: "Daily price log entries written",
		},
	)
)

func init() {
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry.MustRegister(httpRequestsTotal)
	registry.MustRegister(httpRequestDuration)

	registry.MustRegister(quoteFetches)
	registry.MustRegister(quoteRefreshes)
	registry.MustRegister(quoteRefreshDuration)
	registry.MustRegister(priceLogWrites)
}

func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}

// Middleware records request count and latency by route pattern. Paths in
// skipPaths are not recorded.
func Middleware(skipPaths ...string) fiber.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

func RecordQuoteFetch(status string) {
	quoteFetches.WithLabelValues(status).Inc()
}

// RecordRefresh counts a refresh cycle; outcome is "completed", "skipped" or
// "failed". Only completed cycles observe a duration.
func RecordRefresh(outcome string, duration time.Duration) {
	quoteRefreshes.WithLabelValues(outcome).Inc()
	if outcome == "completed" {
		quoteRefreshDuration.Observe(duration.Seconds())
	}
}

func RecordPriceLogWrites(n int) {
	priceLogWrites.Add(float64(n))
}
