package cache

import (
	"context"
	"testing"
	"time"

	"mcadesk/internal/domain/stage"
	"mcadesk/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheService(client, 5*time.Minute), mr
}

func TestCacheService_DealRoundTrip(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	amount := decimal.RequireFromString("10000")
	payback := decimal.RequireFromString("13500")
	deal := &models.Deal{
		ID:              7,
		Reference:       uuid.New(),
		MerchantID:      3,
		RequestedAmount: decimal.NewFromInt(15000),
		ApprovedAmount:  &amount,
		PaybackAmount:   &payback,
		DeclineReasons:  []string{},
		Stage:           stage.Approved,
		Version:         4,
	}

	_, found, err := svc.GetDeal(ctx, 7)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.CacheDeal(ctx, deal))
	assert.True(t, mr.Exists("deal:id:7"))
	assert.Equal(t, 5*time.Minute, mr.TTL("deal:id:7"))

	got, found, err := svc.GetDeal(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, deal.Reference, got.Reference)
	assert.Equal(t, stage.Approved, got.Stage)
	assert.Equal(t, 4, got.Version)
	assert.True(t, payback.Equal(*got.PaybackAmount))
}

func TestCacheService_InvalidateDeal(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, svc.CacheDeal(ctx, &models.Deal{ID: 9, Stage: stage.NewLead}))
	require.NoError(t, svc.CachePipeline(ctx, &models.PipelineSummary{TotalDeals: 1}))
	assert.Equal(t, time.Minute, mr.TTL("dashboard:pipeline:all"))

	require.NoError(t, svc.InvalidateDeal(ctx, 9, 2))

	assert.False(t, mr.Exists("deal:id:9"))
	assert.False(t, mr.Exists("dashboard:pipeline:all"))
	floor, err := mr.Get("deal:floor:9")
	require.NoError(t, err)
	assert.Equal(t, "2", floor)
	assert.Equal(t, 5*time.Minute, mr.TTL("deal:floor:9"))
}

func TestCacheService_StaleReadIsNotCached(t *testing.T) {
	svc, mr := newTestCache(t)
	ctx := context.Background()

	// A reader loaded version 3, then a mutation committed version 4.
	require.NoError(t, svc.InvalidateDeal(ctx, 5, 4))
	require.NoError(t, svc.CacheDeal(ctx, &models.Deal{ID: 5, Stage: stage.NewLead, Version: 3}))
	assert.False(t, mr.Exists("deal:id:5"))

	require.NoError(t, svc.CacheDeal(ctx, &models.Deal{ID: 5, Stage: stage.DocsRequested, Version: 4}))
	got, found, err := svc.GetDeal(ctx, 5)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, got.Version)

	// An older floor never lowers the current one.
	require.NoError(t, svc.InvalidateDeal(ctx, 5, 2))
	floor, err := mr.Get("deal:floor:5")
	require.NoError(t, err)
	assert.Equal(t, "4", floor)
}

func TestCacheService_CorruptEntry(t *testing.T) {
	svc, mr := newTestCache(t)
	require.NoError(t, mr.Set("deal:id:1", "{not json"))

	_, found, err := svc.GetDeal(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCacheService_HealthCheck(t *testing.T) {
	svc, mr := newTestCache(t)
	assert.NoError(t, svc.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, svc.HealthCheck(context.Background()))
}
