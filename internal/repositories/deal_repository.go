package repositories

import (
	"context"

	"mcadesk/internal/domain/stage"
	"mcadesk/internal/models"
)

// DealFilter narrows List results. Zero values are ignored.
type DealFilter struct {
	Stage         stage.Stage
	MerchantID    uint
	UnderwriterID uint
	BrokerID      uint
}

// DealRepository defines the storage operations of the deal workflow
type DealRepository interface {
	// Create inserts a new deal
	Create(ctx context.Context, deal *models.Deal) error

	// GetByID loads the deal row only
	GetByID(ctx context.Context, id uint) (*models.Deal, error)

	// GetDetailed loads the deal with merchant, owners, documents and history
	GetDetailed(ctx context.Context, id uint) (*models.Deal, error)

	List(ctx context.Context, filter DealFilter, offset, limit int) ([]models.Deal, int64, error)

	// UpdateWithVersion writes the mutable columns of deal if the stored
	// version still equals expectedVersion. deal.Version must already hold
	// the new version.
	UpdateWithVersion(ctx context.Context, deal *models.Deal, expectedVersion int) error

	AppendHistory(ctx context.Context, entry *models.StageHistory) error
	History(ctx context.Context, dealID uint) ([]models.StageHistory, error)
	CreateDecision(ctx context.Context, decision *models.UnderwritingDecision) error

	// Delete removes the deal and everything hanging off it
	Delete(ctx context.Context, id uint) error

	PipelineSummary(ctx context.Context) ([]models.StageSummary, error)

	ExecuteInTransaction(ctx context.Context, fn func(DealRepository) error) error
}

// CommentRepository stores deal comments. Comments are append-only.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByDeal(ctx context.Context, dealID uint, offset, limit int) ([]models.Comment, int64, error)
}
