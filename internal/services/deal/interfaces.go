package deal

import (
	"context"
	"time"

	"mcadesk/internal/domain/offer"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
)

// Service is the deal workflow engine
type Service interface {
	// Lead intake and reads
	Create(ctx context.Context, req CreateRequest) (*models.Deal, error)
	Get(ctx context.Context, id uint) (*models.Deal, error)
	List(ctx context.Context, filter repositories.DealFilter, offset, limit int) ([]models.Deal, int64, error)
	History(ctx context.Context, id uint) ([]models.StageHistory, error)
	AllowedTransitions(ctx context.Context, id uint) (*TransitionOptions, error)

	// Workflow mutations
	Transition(ctx context.Context, req TransitionRequest) (*models.Deal, error)
	Decide(ctx context.Context, req DecisionRequest) (*DecisionResult, error)
	Patch(ctx context.Context, req PatchRequest) (*models.Deal, error)
	Delete(ctx context.Context, id uint) error

	// Comments
	AddComment(ctx context.Context, req CommentRequest) (*models.Comment, error)
	Comments(ctx context.Context, dealID uint, offset, limit int) ([]models.Comment, int64, error)

	// Quote runs the offer calculator without touching any deal
	Quote(req offer.Request) (*offer.Offer, error)
}

// Cache is the read-through cache for detailed deals
type Cache interface {
	GetDeal(ctx context.Context, id uint) (*models.Deal, bool, error)
	CacheDeal(ctx context.Context, deal *models.Deal) error
	// InvalidateDeal drops the cached deal after a mutation that committed
	// version. Reads older than version must not be cached afterwards.
	InvalidateDeal(ctx context.Context, id uint, version int) error
}

type MetricsCollector interface {
	RecordTransition(from, to string)
	RecordDecision(kind, outcome string)
	RecordError(operation, code string)
	RecordCacheHit()
	RecordCacheMiss()
	RecordOperationDuration(operation string, d time.Duration)
}
