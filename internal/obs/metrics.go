package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Общие HTTP-метрики
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets, // [0.005..10]
		},
		[]string{"method", "path", "status"},
	)

	classifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_requests_total",
			Help: "Total number of classifier invocations.",
		},
		[]string{"model", "outcome"},
	)

	classifyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classifier_duration_seconds",
			Help:    "Classifier invocation latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Регистрация метрик в default-регистре.
func Init() {
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration,
		classifyTotal, classifyDuration)
}

// Хэндлер Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveClassify records one classifier invocation.
func ObserveClassify(model string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	classifyTotal.WithLabelValues(model, outcome).Inc()
	classifyDuration.Observe(d.Seconds())
}

// Instrument wraps a handler with RPS/latency/in-flight measurement.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// CanonicalPath collapses per-record URL segments so metric label
// cardinality stays bounded.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if strings.HasPrefix(path, "/uploads/") {
		return "/uploads/:name"
	}
	rest, ok := strings.CutPrefix(path, "/api/diagnosis/")
	if !ok {
		return path
	}
	switch {
	case strings.HasSuffix(rest, "/symptoms") && strings.Count(rest, "/") == 1:
		return "/api/diagnosis/:id/symptoms"
	case strings.HasSuffix(rest, "/results") && strings.Count(rest, "/") == 1:
		return "/api/diagnosis/:id/results"
	case strings.HasSuffix(rest, "/report") && strings.Count(rest, "/") == 1:
		return "/api/diagnosis/:id/report"
	}
	return path
}

// statusWriter — локальная копия, чтобы знать код ответа.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
