package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wonny/natal/internal/contracts"
)

var latencyBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for the placement engine and its API
// ⭐ SSOT: 프로메테우스 지표 정의는 여기서만
type Metrics struct {
	LookupDuration  *prometheus.HistogramVec
	LookupFailures  *prometheus.CounterVec
	Computations    *prometheus.CounterVec
	ComputeDuration prometheus.Histogram
	SelfTestStatus  prometheus.Gauge
	SelfTestRuns    *prometheus.CounterVec
	SummaryCache    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers every metric on reg (prometheus.DefaultRegisterer in the
// server, a fresh registry in tests)
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LookupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "natal_ephemeris_lookup_duration_seconds",
			Help:    "Duration of single-body ephemeris lookups",
			Buckets: latencyBuckets,
		}, []string{"provider", "body"}),
		LookupFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "natal_ephemeris_lookup_failures_total",
			Help: "Ephemeris lookups that returned an error",
		}, []string{"provider", "body"}),
		Computations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "natal_computations_total",
			Help: "Placement computations by outcome (complete, partial, failed)",
		}, []string{"outcome", "kind"}),
		ComputeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "natal_compute_duration_seconds",
			Help:    "End-to-end duration of a placement computation",
			Buckets: latencyBuckets,
		}),
		SelfTestStatus: f.NewGauge(prometheus.GaugeOpts{
			Name: "natal_self_test_ok",
			Help: "1 when the last reference-chart self test passed, 0 otherwise",
		}),
		SelfTestRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "natal_self_test_runs_total",
			Help: "Self test executions by result",
		}, []string{"result"}),
		SummaryCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "natal_summary_cache_total",
			Help: "Summary cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "natal_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "method", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "natal_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: latencyBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveLookup records one provider lookup
func (m *Metrics) ObserveLookup(provider string, body contracts.Body, d time.Duration, err error) {
	m.LookupDuration.WithLabelValues(provider, string(body)).Observe(d.Seconds())
	if err != nil {
		m.LookupFailures.WithLabelValues(provider, string(body)).Inc()
	}
}

// ObserveCompute records a finished computation.
// outcome is complete, partial or failed; kind is the error taxonomy name.
func (m *Metrics) ObserveCompute(outcome, kind string, d time.Duration) {
	m.Computations.WithLabelValues(outcome, kind).Inc()
	m.ComputeDuration.Observe(d.Seconds())
}

// ObserveSelfTest records a self-test result
func (m *Metrics) ObserveSelfTest(err error) {
	if err != nil {
		m.SelfTestStatus.Set(0)
		m.SelfTestRuns.WithLabelValues("fail").Inc()
		return
	}
	m.SelfTestStatus.Set(1)
	m.SelfTestRuns.WithLabelValues("pass").Inc()
}

// ObserveCache records a summary cache lookup
func (m *Metrics) ObserveCache(result string) {
	m.SummaryCache.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(route, method string, code int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, statusClass(code)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
