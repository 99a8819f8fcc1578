package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DiscountMetrics records apply outcomes, compensating reverts and Storefront call latency.
type DiscountMetrics struct {
	outcomes *prometheus.CounterVec
	reverts  *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

// NewDiscountMetrics registers the discount collectors on the provided registerer.
func NewDiscountMetrics(reg prometheus.Registerer) *DiscountMetrics {
	if reg == nil {
		return &DiscountMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discount_apply_total",
		Help: "Discount apply attempts by outcome.",
	}, []string{"outcome"})
	reverts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discount_revert_total",
		Help: "Compensating discount code reverts by result.",
	}, []string{"result"})
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopify_storefront_request_duration_seconds",
		Help:    "Duration of Storefront GraphQL calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	reg.MustRegister(outcomes, reverts, upstream)
	return &DiscountMetrics{
		outcomes: outcomes,
		reverts:  reverts,
		upstream: upstream,
	}
}

// IncOutcome counts one apply attempt.
func (m *DiscountMetrics) IncOutcome(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRevert counts one compensating revert decision.
func (m *DiscountMetrics) IncRevert(result string) {
	if m == nil || m.reverts == nil {
		return
	}
	m.reverts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveUpstream records the latency of a Storefront call.
func (m *DiscountMetrics) ObserveUpstream(operation, outcome string, duration time.Duration) {
	if m == nil || m.upstream == nil {
		return
	}
	m.upstream.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
