package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
	"trustive/internal/structures"
)

// DirectoryStats is the read-only view of the directory the gauges sample.
type DirectoryStats interface {
	CoachCount() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncReviewSubmissions(outcome string)
	IncClaimRequests(outcome string)
	IncSignups(role string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	reviewSubmissions   *prometheus.CounterVec
	claimRequests       *prometheus.CounterVec
	signups             *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncReviewSubmissions(outcome string) {
	m.reviewSubmissions.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncClaimRequests(outcome string) {
	m.claimRequests.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncSignups(role string) {
	m.signups.WithLabelValues(role).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, directory DirectoryStats) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustive_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustive_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustive_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustive_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustive_persistence_duration_seconds",
			Help:    "Duration of storage snapshot flushes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		reviewSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustive_review_submissions_total",
			Help: "Review submission attempts by outcome",
		}, []string{"outcome"}),

		claimRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustive_claim_requests_total",
			Help: "Profile claim requests by outcome",
		}, []string{"outcome"}),

		signups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustive_signups_total",
			Help: "Created accounts by role",
		}, []string{"role"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "trustive_coaches_total",
		Help: "Number of coach profiles in the directory",
	}, func() float64 {
		return float64(directory.CoachCount())
	})

	return m
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncReviewSubmissions(_ string)                    {}
func (n *noopMetrics) IncClaimRequests(_ string)                        {}
func (n *noopMetrics) IncSignups(_ string)                              {}
