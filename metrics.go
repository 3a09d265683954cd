package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospectedge_http_requests_total",
		Help: "HTTP requests served, by status code and method.",
	}, []string{"code", "method"})

	httpDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prospectedge_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests.",
		Buckets: prometheus.DefBuckets,
	})

	reconcileRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prospectedge_reconcile_rows",
		Help:    "Rows produced per watchlist reconciliation.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	cacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospectedge_cache_results_total",
		Help: "Redis query cache lookups, by result.",
	}, []string{"result"})

	supersededLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prospectedge_superseded_loads_total",
		Help: "Watchlist loads discarded because a newer load for the same view started.",
	})

	cspViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prospectedge_csp_violations_total",
		Help: "Content-Security-Policy violation reports received.",
	})
)

// Metrics middleware ---------------------------------------------------------

type Metrics struct {
	handler http.Handler
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := time.Now()
	sw := wrapStatus(w)
	m.handler.ServeHTTP(sw, r)
	httpRequests.WithLabelValues(strconv.Itoa(sw.status), r.Method).Inc()
	httpDuration.Observe(time.Since(t).Seconds())
}
func withMetrics(h http.Handler) *Metrics {
	return &Metrics{h}
}
