package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"trainerdesk/internal/subdomain"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	TenantResolutions    *prometheus.CounterVec
	SubdomainAllocations *prometheus.CounterVec
	AllocationAttempts   prometheus.Histogram
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TenantResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerdesk",
			Name:      "tenant_resolutions_total",
			Help:      "Requests classified by the tenant resolver.",
		}, []string{"outcome"}), // outcome: rewrite, passthrough
		SubdomainAllocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerdesk",
			Name:      "subdomain_allocations_total",
			Help:      "Subdomain allocations by result.",
		}, []string{"result"}), // result: allocated, exhausted, error
		AllocationAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trainerdesk",
			Name:      "subdomain_allocation_attempts",
			Help:      "Candidates examined per subdomain allocation.",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerdesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trainerdesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveResolution counts a resolver decision.
func (m *Metrics) ObserveResolution(rewrite bool) {
	outcome := "passthrough"
	if rewrite {
		outcome = "rewrite"
	}
	m.TenantResolutions.WithLabelValues(outcome).Inc()
}

// ObserveAllocation matches subdomain.AttemptObserver.
func (m *Metrics) ObserveAllocation(attempts int, err error) {
	result := "allocated"
	switch {
	case err == nil:
	case errors.Is(err, subdomain.ErrAllocationExhausted):
		result = "exhausted"
	default:
		result = "error"
	}
	m.SubdomainAllocations.WithLabelValues(result).Inc()
	if attempts > 0 {
		m.AllocationAttempts.Observe(float64(attempts))
	}
}
