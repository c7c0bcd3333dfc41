package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"mcadesk/internal/domain/stage"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/repositories/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDealRepo only answers PipelineSummary.
type stubDealRepo struct {
	repositories.DealRepository
	rows  []models.StageSummary
	err   error
	calls int
}

func (r *stubDealRepo) PipelineSummary(context.Context) ([]models.StageSummary, error) {
	r.calls++
	return r.rows, r.err
}

func newTestCache(t *testing.T) *cache.CacheService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCacheService(client, time.Minute)
}

func TestGetPipelineSummary(t *testing.T) {
	repo := &stubDealRepo{rows: []models.StageSummary{
		{Stage: string(stage.NewLead), Count: 4, RequestedTotal: decimal.NewFromInt(200000), ApprovedTotal: decimal.Zero},
		{Stage: string(stage.Funded), Count: 2, RequestedTotal: decimal.NewFromInt(60000), ApprovedTotal: decimal.NewFromInt(45000)},
	}}
	svc := NewService(repo, nil, nil)

	summary, err := svc.GetPipelineSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Stages, len(stage.All))
	for i, st := range stage.All {
		assert.Equal(t, string(st), summary.Stages[i].Stage)
	}
	assert.Equal(t, int64(6), summary.TotalDeals)
	assert.True(t, summary.FundedTotal.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, int64(0), summary.Stages[1].Count)
}

func TestGetPipelineSummary_Cached(t *testing.T) {
	ctx := context.Background()
	repo := &stubDealRepo{rows: []models.StageSummary{
		{Stage: string(stage.Approved), Count: 1, RequestedTotal: decimal.NewFromInt(10000), ApprovedTotal: decimal.NewFromInt(9000)},
	}}
	svc := NewService(repo, newTestCache(t), nil)

	first, err := svc.GetPipelineSummary(ctx)
	require.NoError(t, err)
	second, err := svc.GetPipelineSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.TotalDeals, second.TotalDeals)
}

func TestGetPipelineSummary_StorageError(t *testing.T) {
	storageErr := errors.New("pq: relation \"deals\" does not exist")
	svc := NewService(&stubDealRepo{err: storageErr}, nil, nil)

	_, err := svc.GetPipelineSummary(context.Background())
	assert.ErrorIs(t, err, storageErr)
}
