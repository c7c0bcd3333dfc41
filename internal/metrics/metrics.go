// Package metrics exposes the prometheus collectors of the deal workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	transitions *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	errors      *prometheus.CounterVec
	cache       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCollector registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_stage_transitions_total",
				Help: "Committed deal stage transitions",
			},
			[]string{"from", "to"},
		),
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_decisions_total",
				Help: "Underwriting decisions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_operation_errors_total",
				Help: "Failed deal operations by error code",
			},
			[]string{"operation", "code"},
		),
		cache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_cache_lookups_total",
				Help: "Deal cache lookups by result",
			},
			[]string{"result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deal_operation_duration_seconds",
				Help:    "Duration of deal operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (c *Collector) RecordTransition(from, to string) {
	c.transitions.WithLabelValues(from, to).Inc()
}

func (c *Collector) RecordDecision(kind, outcome string) {
	c.decisions.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) RecordError(operation, code string) {
	c.errors.WithLabelValues(operation, code).Inc()
}

func (c *Collector) RecordCacheHit() {
	c.cache.WithLabelValues("hit").Inc()
}

func (c *Collector) RecordCacheMiss() {
	c.cache.WithLabelValues("miss").Inc()
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.duration.WithLabelValues(operation).Observe(d.Seconds())
}
