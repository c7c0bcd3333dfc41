package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTransition("NEW_LEAD", "DOCS_REQUESTED")
	c.RecordTransition("NEW_LEAD", "DOCS_REQUESTED")
	c.RecordDecision("APPROVE", "committed")
	c.RecordError("transition", "INVALID_TRANSITION")
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordCacheMiss()
	c.RecordOperationDuration("transition", 20*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.transitions.WithLabelValues("NEW_LEAD", "DOCS_REQUESTED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.decisions.WithLabelValues("APPROVE", "committed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.errors.WithLabelValues("transition", "INVALID_TRANSITION")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.cache.WithLabelValues("miss")))

	count, err := testutil.GatherAndCount(reg, "deal_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
