package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	providerLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cep_provider_lookups_total",
			Help: "Total number of CEP provider lookups by outcome",
		},
		[]string{"provider", "outcome"},
	)

	providerLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cep_provider_lookup_duration_seconds",
			Help:    "Duration of CEP provider lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cep_resolutions_total",
			Help: "Total number of CEP resolutions by winning provider",
		},
		[]string{"provider"},
	)
)

// Outcomes de uma consulta a um provedor.
const (
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern evita um label por CEP: usa o padrão da rota do chi quando existe.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordProviderLookup(provider, outcome string, elapsed time.Duration) {
	providerLookups.WithLabelValues(provider, outcome).Inc()
	providerLookupDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordResolution conta quem venceu a resolução; "none" quando nenhum provedor achou.
func RecordResolution(provider string) {
	if provider == "" {
		provider = "none"
	}
	resolutions.WithLabelValues(provider).Inc()
}
