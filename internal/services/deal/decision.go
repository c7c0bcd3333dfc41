package deal

import (
	"context"
	"time"

	"mcadesk/internal/domain/offer"
	"mcadesk/internal/domain/stage"
	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/validation"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Decide records an underwriting decision. APPROVE and DECLINE move the
// deal and persist their fields atomically; COUNTER only prices the offer.
func (s *service) Decide(ctx context.Context, req DecisionRequest) (*DecisionResult, error) {
	ctx, span := s.tracer.Start(ctx, "deal.Decide", trace.WithAttributes(
		attribute.Int64("deal.id", int64(req.DealID)),
		attribute.String("deal.decision", string(req.Kind)),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("decide", time.Since(start)) }()

	kind, ok := ParseDecisionKind(string(req.Kind))
	if !ok {
		s.metrics.RecordDecision(string(req.Kind), "rejected")
		return nil, s.fail(span, "decide", apperrors.ErrInvalidDecision.WithDetail("unknown decision %q", string(req.Kind)))
	}

	var (
		result *DecisionResult
		err    error
	)
	switch kind {
	case DecisionCounter:
		result, err = s.counter(ctx, req)
	case DecisionApprove:
		result, err = s.approve(ctx, req)
	case DecisionDecline:
		result, err = s.decline(ctx, req)
	}
	if err != nil {
		s.metrics.RecordDecision(string(kind), "rejected")
		return nil, s.fail(span, "decide", err)
	}

	outcome := "committed"
	if !result.Committed {
		outcome = "proposed"
	} else {
		s.invalidate(ctx, req.DealID, result.Deal.Version)
	}
	s.metrics.RecordDecision(string(kind), outcome)
	s.logger.Info("underwriting decision recorded",
		zap.Uint("deal_id", req.DealID),
		zap.String("decision", string(kind)),
		zap.Bool("committed", result.Committed),
	)
	return result, nil
}

func (s *service) counter(ctx context.Context, req DecisionRequest) (*DecisionResult, error) {
	o, err := calculate(req.Offer)
	if err != nil {
		return nil, err
	}
	deal, err := s.deals.GetByID(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	summary := o.Summary()
	return &DecisionResult{Kind: DecisionCounter, Deal: deal, Offer: o, Summary: &summary}, nil
}

func (s *service) approve(ctx context.Context, req DecisionRequest) (*DecisionResult, error) {
	o, err := calculate(req.Offer)
	if err != nil {
		return nil, err
	}
	v := validation.New()
	grade := v.PaperGrade("paper_grade", req.PaperGrade)
	v.RiskScore("risk_score", req.RiskScore)
	v.MaxLength("notes", req.Notes, validation.MaxNoteLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var updated *models.Deal
	err = s.deals.ExecuteInTransaction(ctx, func(repo repositories.DealRepository) error {
		deal, err := s.load(ctx, repo, req.DealID, req.Version)
		if err != nil {
			return err
		}
		from := deal.Stage
		if err := stage.ValidateTransition(from, stage.Approved); err != nil {
			return err
		}

		now := s.now()
		applyStage(deal, stage.Approved, now)
		applyOffer(deal, o)
		deal.PaperGrade = grade
		deal.RiskScore = req.RiskScore
		deal.DeclineReasons = nil
		stampDecision(deal, req, now)

		if err := s.save(ctx, repo, deal); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, repo, deal, from, req.ActorID, req.Notes, now); err != nil {
			return err
		}
		if err := repo.CreateDecision(ctx, &models.UnderwritingDecision{
			DealID:        deal.ID,
			Kind:          string(DecisionApprove),
			Notes:         req.Notes,
			DecidedByID:   req.ActorID,
			OfferSnapshot: offerSnapshot(o),
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := o.Summary()
	return &DecisionResult{Kind: DecisionApprove, Deal: updated, Offer: o, Summary: &summary, Committed: true}, nil
}

func (s *service) decline(ctx context.Context, req DecisionRequest) (*DecisionResult, error) {
	v := validation.New()
	v.DeclineReasons("decline_reasons", req.DeclineReasons)
	grade := v.PaperGrade("paper_grade", req.PaperGrade)
	v.RiskScore("risk_score", req.RiskScore)
	v.MaxLength("notes", req.Notes, validation.MaxNoteLength)
	if !v.Valid() {
		return nil, apperrors.ErrInvalidDecision.WithDetail("%s", v.Err().Error())
	}
	if req.Offer != nil {
		return nil, apperrors.ErrInvalidDecision.WithDetail("a decline carries no offer")
	}

	reasons := make(pq.StringArray, len(req.DeclineReasons))
	copy(reasons, req.DeclineReasons)

	var updated *models.Deal
	err := s.deals.ExecuteInTransaction(ctx, func(repo repositories.DealRepository) error {
		deal, err := s.load(ctx, repo, req.DealID, req.Version)
		if err != nil {
			return err
		}
		from := deal.Stage
		if err := stage.ValidateTransition(from, stage.Declined); err != nil {
			return err
		}

		now := s.now()
		applyStage(deal, stage.Declined, now)
		deal.DeclineReasons = reasons
		if grade != nil {
			deal.PaperGrade = grade
		}
		if req.RiskScore != nil {
			deal.RiskScore = req.RiskScore
		}
		stampDecision(deal, req, now)

		if err := s.save(ctx, repo, deal); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, repo, deal, from, req.ActorID, req.Notes, now); err != nil {
			return err
		}
		if err := repo.CreateDecision(ctx, &models.UnderwritingDecision{
			DealID:         deal.ID,
			Kind:           string(DecisionDecline),
			Notes:          req.Notes,
			DecidedByID:    req.ActorID,
			DeclineReasons: reasons,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DecisionResult{Kind: DecisionDecline, Deal: updated, Committed: true}, nil
}

func calculate(req *offer.Request) (*offer.Offer, error) {
	if req == nil {
		return nil, apperrors.ErrInvalidOfferInput.WithDetail("offer is required")
	}
	return offer.Calculate(*req)
}

// applyOffer copies the computed values as-is so the stored terms match the
// returned offer exactly.
func applyOffer(deal *models.Deal, o *offer.Offer) {
	amount, factor, term := o.ApprovedAmount, o.FactorRate, o.TermDays
	payback, daily, weekly := o.PaybackAmount, o.DailyPayment, o.WeeklyPayment
	rate, commission, position := o.CommissionRate, o.Commission, o.Position

	deal.ApprovedAmount = &amount
	deal.FactorRate = &factor
	deal.TermDays = &term
	deal.PaybackAmount = &payback
	deal.DailyPayment = &daily
	deal.WeeklyPayment = &weekly
	deal.CommissionRate = &rate
	deal.Commission = &commission
	deal.Position = &position
	if o.HoldbackPercentage != nil {
		holdback := *o.HoldbackPercentage
		deal.HoldbackPercentage = &holdback
	} else {
		deal.HoldbackPercentage = nil
	}
}

func stampDecision(deal *models.Deal, req DecisionRequest, at time.Time) {
	deal.DecisionNotes = req.Notes
	deal.DecidedAt = &at
	deal.DecidedByID = req.ActorID
}

func offerSnapshot(o *offer.Offer) models.JSON {
	snapshot := models.JSON{
		"approved_amount": o.ApprovedAmount.String(),
		"factor_rate":     o.FactorRate.String(),
		"term_days":       o.TermDays,
		"payback_amount":  o.PaybackAmount.String(),
		"daily_payment":   o.DailyPayment.String(),
		"weekly_payment":  o.WeeklyPayment.String(),
		"commission_rate": o.CommissionRate.String(),
		"commission":      o.Commission.String(),
		"position":        o.Position,
	}
	if o.HoldbackPercentage != nil {
		snapshot["holdback_percentage"] = o.HoldbackPercentage.String()
	}
	return snapshot
}
