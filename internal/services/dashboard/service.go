package dashboard

import (
	"context"
	"fmt"

	"mcadesk/internal/domain/stage"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	GetPipelineSummary(ctx context.Context) (*models.PipelineSummary, error)
}

// PipelineCache stores the computed summary for a short period.
type PipelineCache interface {
	GetPipeline(ctx context.Context) (*models.PipelineSummary, bool, error)
	CachePipeline(ctx context.Context, summary *models.PipelineSummary) error
}

type service struct {
	dealRepo repositories.DealRepository
	cache    PipelineCache
	logger   *zap.Logger
}

// NewService builds the dashboard service. cache may be nil.
func NewService(dealRepo repositories.DealRepository, cache PipelineCache, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		dealRepo: dealRepo,
		cache:    cache,
		logger:   logger.Named("dashboard"),
	}
}

// GetPipelineSummary reports every stage in pipeline order, including the
// empty ones.
func (s *service) GetPipelineSummary(ctx context.Context) (*models.PipelineSummary, error) {
	if s.cache != nil {
		cached, found, err := s.cache.GetPipeline(ctx)
		if err != nil {
			s.logger.Warn("pipeline cache read failed", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	rows, err := s.dealRepo.PipelineSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize pipeline: %w", err)
	}

	byStage := make(map[string]models.StageSummary, len(rows))
	for _, row := range rows {
		byStage[row.Stage] = row
	}

	summary := &models.PipelineSummary{
		Stages:      make([]models.StageSummary, 0, len(stage.All)),
		FundedTotal: decimal.Zero,
	}
	for _, st := range stage.All {
		row, ok := byStage[string(st)]
		if !ok {
			row = models.StageSummary{Stage: string(st), RequestedTotal: decimal.Zero, ApprovedTotal: decimal.Zero}
		}
		summary.Stages = append(summary.Stages, row)
		summary.TotalDeals += row.Count
		if st == stage.Funded {
			summary.FundedTotal = row.ApprovedTotal
		}
	}

	if s.cache != nil {
		if err := s.cache.CachePipeline(ctx, summary); err != nil {
			s.logger.Warn("failed to cache pipeline summary", zap.Error(err))
		}
	}
	return summary, nil
}
