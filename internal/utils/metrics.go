package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// RowsAccepted counts records that made it into a normalized dataset.
	RowsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_rows_accepted_total",
		Help: "Rows accepted into normalized datasets.",
	})

	// RowsRejected counts records dropped or flagged during normalization.
	RowsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_rows_rejected_total",
		Help: "Rows dropped during normalization.",
	})

	// InsightFailures counts best-effort insight calls that fell back.
	InsightFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "insights_unavailable_total",
		Help: "Insight generations that fell back to the local summary.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpLatency, RowsAccepted, RowsRejected, InsightFailures)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Metrics records request counts and latency per route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		httpRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		httpLatency.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
