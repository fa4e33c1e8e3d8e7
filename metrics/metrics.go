// Package metrics defines the core's operational Prometheus metrics,
// trimmed from the retrieved pack's broader business-metrics set down
// to the tournament engine's own operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tournament_http_requests_total",
		Help: "Total HTTP requests processed by the gateway shim.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tournament_http_request_duration_seconds",
		Help:    "HTTP request duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tournament_http_requests_in_flight",
		Help: "HTTP requests currently being processed.",
	})

	FixtureGenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tournament_fixture_generation_duration_seconds",
		Help:    "Duration of generateFixture calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	ResultReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tournament_result_reports_total",
		Help: "reportResult calls by outcome.",
	}, []string{"outcome"})

	ResultConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tournament_result_confirmations_total",
		Help: "acceptResult calls by outcome.",
	}, []string{"outcome"})

	IncidentResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tournament_incident_resolutions_total",
		Help: "resolveIncident calls by action.",
	}, []string{"action"})

	IdempotencyCacheResultTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tournament_idempotency_cache_total",
		Help: "Idempotency fast-path cache lookups by result.",
	}, []string{"result"}) // hit | miss
)

// Middleware records duration/status/in-flight for every HTTP request,
// skipping /metrics itself, as the retrieved pack's metrics middleware
// does.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Handler exposes the /metrics scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }

func RecordIdempotencyHit()  { IdempotencyCacheResultTotal.WithLabelValues("hit").Inc() }
func RecordIdempotencyMiss() { IdempotencyCacheResultTotal.WithLabelValues("miss").Inc() }
