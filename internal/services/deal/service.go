package deal

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"mcadesk/internal/domain/offer"
	"mcadesk/internal/domain/stage"
	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "mcadesk/internal/services/deal"

// deletedVersion is the cache floor of a deleted deal.
const deletedVersion = math.MaxInt32

type service struct {
	deals     repositories.DealRepository
	comments  repositories.CommentRepository
	merchants repositories.MerchantRepository
	cache     Cache
	metrics   MetricsCollector
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewService wires the workflow engine. cache, metrics and logger may be nil.
func NewService(
	deals repositories.DealRepository,
	comments repositories.CommentRepository,
	merchants repositories.MerchantRepository,
	cache Cache,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		deals:     deals,
		comments:  comments,
		merchants: merchants,
		cache:     cache,
		metrics:   metrics,
		logger:    logger.Named("deal"),
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Deal, error) {
	v := validation.New()
	v.Required("merchant_id", req.MerchantID)
	v.Positive("requested_amount", req.RequestedAmount)
	v.Check(offer.FitsAmount(req.RequestedAmount), "requested_amount", "must have at most 2 decimal places and not exceed "+offer.MaxAmount.String())
	v.MaxLength("note", req.Note, validation.MaxNoteLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	exists, err := s.merchants.Exists(ctx, req.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up merchant: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrMerchantNotFound
	}

	now := s.now()
	deal := &models.Deal{
		Reference:       uuid.New(),
		MerchantID:      req.MerchantID,
		UnderwriterID:   req.UnderwriterID,
		BrokerID:        req.BrokerID,
		RequestedAmount: req.RequestedAmount,
		Stage:           stage.NewLead,
		StageChangedAt:  now,
		Version:         1,
	}

	err = s.deals.ExecuteInTransaction(ctx, func(repo repositories.DealRepository) error {
		if err := repo.Create(ctx, deal); err != nil {
			return err
		}
		return repo.AppendHistory(ctx, &models.StageHistory{
			DealID:      deal.ID,
			ToStage:     stage.NewLead,
			ChangedByID: req.ActorID,
			Note:        req.Note,
			ChangedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, deal.ID, deal.Version)
	s.logger.Info("deal created",
		zap.Uint("deal_id", deal.ID),
		zap.String("reference", deal.Reference.String()),
		zap.Uint("merchant_id", deal.MerchantID),
	)
	return deal, nil
}

// Get returns the detailed deal, served from the cache when possible.
func (s *service) Get(ctx context.Context, id uint) (*models.Deal, error) {
	if cached, found, err := s.cache.GetDeal(ctx, id); err != nil {
		s.logger.Warn("deal cache read failed", zap.Uint("deal_id", id), zap.Error(err))
	} else if found {
		s.metrics.RecordCacheHit()
		return cached, nil
	}
	s.metrics.RecordCacheMiss()

	deal, err := s.deals.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.CacheDeal(ctx, deal); err != nil {
		s.logger.Warn("failed to cache deal", zap.Uint("deal_id", id), zap.Error(err))
	}
	return deal, nil
}

func (s *service) List(ctx context.Context, filter repositories.DealFilter, offset, limit int) ([]models.Deal, int64, error) {
	if filter.Stage != "" && !filter.Stage.Valid() {
		return nil, 0, apperrors.ErrInvalidStage.WithDetail("%q", string(filter.Stage))
	}
	return s.deals.List(ctx, filter, offset, limit)
}

func (s *service) History(ctx context.Context, id uint) ([]models.StageHistory, error) {
	if _, err := s.deals.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.deals.History(ctx, id)
}

func (s *service) AllowedTransitions(ctx context.Context, id uint) (*TransitionOptions, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TransitionOptions{
		DealID:  deal.ID,
		Current: deal.Stage,
		Next:    deal.Stage.Next(),
		Version: deal.Version,
	}, nil
}

// Transition validates and records one stage move. The stage update and the
// history entry are written in one transaction.
func (s *service) Transition(ctx context.Context, req TransitionRequest) (*models.Deal, error) {
	ctx, span := s.tracer.Start(ctx, "deal.Transition", trace.WithAttributes(
		attribute.Int64("deal.id", int64(req.DealID)),
		attribute.String("deal.to", string(req.To)),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("transition", time.Since(start)) }()

	to, err := stage.Parse(string(req.To))
	if err != nil {
		return nil, s.fail(span, "transition", err)
	}

	var (
		updated *models.Deal
		from    stage.Stage
	)
	err = s.deals.ExecuteInTransaction(ctx, func(repo repositories.DealRepository) error {
		deal, err := s.load(ctx, repo, req.DealID, req.Version)
		if err != nil {
			return err
		}
		from = deal.Stage
		if err := stage.ValidateTransition(from, to); err != nil {
			return err
		}

		now := s.now()
		applyStage(deal, to, now)
		if err := s.save(ctx, repo, deal); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, repo, deal, from, req.ActorID, req.Note, now); err != nil {
			return err
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "transition", err)
	}

	s.invalidate(ctx, updated.ID, updated.Version)
	s.metrics.RecordTransition(string(from), string(to))
	s.logger.Info("deal stage changed",
		zap.Uint("deal_id", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("version", updated.Version),
	)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.deals.Delete(ctx, id); err != nil {
		s.recordError("delete", err)
		return err
	}
	s.invalidate(ctx, id, deletedVersion)
	s.logger.Info("deal deleted", zap.Uint("deal_id", id))
	return nil
}

func (s *service) AddComment(ctx context.Context, req CommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	v := validation.New()
	v.Required("content", content)
	v.MaxLength("content", content, validation.MaxCommentLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.deals.GetByID(ctx, req.DealID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		DealID:    req.DealID,
		AuthorID:  req.AuthorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) Comments(ctx context.Context, dealID uint, offset, limit int) ([]models.Comment, int64, error) {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByDeal(ctx, dealID, offset, limit)
}

func (s *service) Quote(req offer.Request) (*offer.Offer, error) {
	return offer.Calculate(req)
}

// load reads the deal inside a transaction and enforces the optional
// caller-supplied version.
func (s *service) load(ctx context.Context, repo repositories.DealRepository, id uint, version *int) (*models.Deal, error) {
	deal, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if version != nil && *version != deal.Version {
		return nil, apperrors.ErrConcurrentModification.WithDetail("deal %d is at version %d, not %d", id, deal.Version, *version)
	}
	return deal, nil
}

// save bumps the version and compare-and-swaps the row.
func (s *service) save(ctx context.Context, repo repositories.DealRepository, deal *models.Deal) error {
	expected := deal.Version
	deal.Version = expected + 1
	if err := repo.UpdateWithVersion(ctx, deal, expected); err != nil {
		deal.Version = expected
		return err
	}
	return nil
}

func (s *service) appendHistory(ctx context.Context, repo repositories.DealRepository, deal *models.Deal, from stage.Stage, actor *uint, note string, at time.Time) error {
	return repo.AppendHistory(ctx, &models.StageHistory{
		DealID:      deal.ID,
		FromStage:   from,
		ToStage:     deal.Stage,
		ChangedByID: actor,
		Note:        note,
		ChangedAt:   at,
	})
}

// applyStage moves deal to `to`. A re-open wipes the previous decision and
// leaving the offer-carrying stages drops the terms.
func applyStage(deal *models.Deal, to stage.Stage, at time.Time) {
	switch {
	case stage.IsReopen(deal.Stage, to):
		deal.ClearDecision()
	case !to.CarriesOffer() && deal.HasOffer():
		deal.ClearTerms()
	}
	deal.Stage = to
	deal.StageChangedAt = at
}

func (s *service) invalidate(ctx context.Context, id uint, version int) {
	if err := s.cache.InvalidateDeal(ctx, id, version); err != nil {
		s.logger.Warn("failed to invalidate deal cache", zap.Uint("deal_id", id), zap.Error(err))
	}
}

func (s *service) recordError(operation string, err error) {
	code := "internal"
	if de, ok := apperrors.As(err); ok {
		code = de.Code
	}
	s.metrics.RecordError(operation, code)
}

func (s *service) fail(span trace.Span, operation string, err error) error {
	s.recordError(operation, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
