package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds the API request collectors.
type HTTPMetrics struct {
	Duration *prometheus.HistogramVec
	Requests *prometheus.CounterVec

	basePath string
}

// NewHTTPMetrics creates the API request collectors and registers them on reg.
// Routes mounted under basePath are reported without the prefix, so the root
// and versioned mounts of one endpoint share a series.
func NewHTTPMetrics(reg prometheus.Registerer, basePath string) *HTTPMetrics {
	m := &HTTPMetrics{
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "geofeed",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "geofeed",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		basePath: strings.TrimSuffix(basePath, "/"),
	}
	reg.MustRegister(m.Duration, m.Requests)
	return m
}

// Middleware records request duration and count per chi route pattern.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := m.route(chi.RouteContext(r.Context()))
		status := strconv.Itoa(ww.status)

		m.Duration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.Requests.WithLabelValues(r.Method, route, status).Inc()
	})
}

// route returns the matched pattern, or "unmatched" for 404/405 fallbacks,
// keeping raw URLs out of the label set.
func (m *HTTPMetrics) route(rctx *chi.Context) string {
	if rctx == nil {
		return "unmatched"
	}
	pattern := rctx.RoutePattern()
	if pattern == "" || pattern == "/*" {
		return "unmatched"
	}
	if m.basePath != "" {
		if rest, ok := strings.CutPrefix(pattern, m.basePath); ok && strings.HasPrefix(rest, "/") {
			pattern = rest
		}
	}
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	return pattern
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
