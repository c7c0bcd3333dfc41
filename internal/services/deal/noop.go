package deal

import (
	"context"
	"time"

	"mcadesk/internal/models"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransition(string, string)               {}
func (n *NoopMetricsCollector) RecordDecision(string, string)                 {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordCacheHit()                               {}
func (n *NoopMetricsCollector) RecordCacheMiss()                              {}
func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}

// NoopCache always misses. Used when redis is disabled or unreachable.
type NoopCache struct{}

func (NoopCache) GetDeal(context.Context, uint) (*models.Deal, bool, error) { return nil, false, nil }
func (NoopCache) CacheDeal(context.Context, *models.Deal) error             { return nil }
func (NoopCache) InvalidateDeal(context.Context, uint, int) error           { return nil }
