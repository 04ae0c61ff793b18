package middleware

import (
	"net/http"
	"strconv"
	"time"

	"pagesmith/internal/observability"
)

// Metrics records request count and latency per method, path and status.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.statusCode)
			path := metricPath(r.URL.Path)

			observability.HTTPRequestDuration.WithLabelValues(
				r.Method,
				path,
				status,
			).Observe(duration)

			observability.HTTPRequestsTotal.WithLabelValues(
				r.Method,
				path,
				status,
			).Inc()
		})
	}
}

// metricPath collapses static asset paths into one label so page URLs do not
// blow up metric cardinality.
func metricPath(path string) string {
	const apiPrefix = "/api/"
	if len(path) >= len(apiPrefix) && path[:len(apiPrefix)] == apiPrefix {
		return path
	}
	if path == "/metrics" || path == "/health" || path == "/health/ready" {
		return path
	}
	return "/static"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
