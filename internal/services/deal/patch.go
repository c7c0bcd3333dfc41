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
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Patch applies a partial update. A stage change is validated like
// Transition. Offer terms are all-or-nothing: approved_amount, factor_rate
// and term_days travel together, payback_amount and daily_payment are
// derived and only accepted when they equal the derived values.
func (s *service) Patch(ctx context.Context, req PatchRequest) (*models.Deal, error) {
	ctx, span := s.tracer.Start(ctx, "deal.Patch", trace.WithAttributes(
		attribute.Int64("deal.id", int64(req.DealID)),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("patch", time.Since(start)) }()

	if req.empty() {
		return nil, s.fail(span, "patch", apperrors.ErrValidation.WithDetail("no fields to update"))
	}

	var target *stage.Stage
	if req.Stage != nil {
		parsed, err := stage.Parse(string(*req.Stage))
		if err != nil {
			return nil, s.fail(span, "patch", err)
		}
		target = &parsed
	}

	v := validation.New()
	grade := v.PaperGrade("paper_grade", req.PaperGrade)
	v.RiskScore("risk_score", req.RiskScore)
	if req.DeclineReasons != nil {
		v.DeclineReasons("decline_reasons", req.DeclineReasons)
	}
	v.MaxLength("note", req.Note, validation.MaxNoteLength)
	if err := v.Err(); err != nil {
		return nil, s.fail(span, "patch", err)
	}

	var (
		updated *models.Deal
		from    stage.Stage
		moved   bool
	)
	err := s.deals.ExecuteInTransaction(ctx, func(repo repositories.DealRepository) error {
		deal, err := s.load(ctx, repo, req.DealID, req.Version)
		if err != nil {
			return err
		}
		from = deal.Stage

		now := s.now()
		if target != nil && *target != deal.Stage {
			if err := stage.ValidateTransition(deal.Stage, *target); err != nil {
				return err
			}
			applyStage(deal, *target, now)
			moved = true
		}

		if err := patchTerms(deal, req); err != nil {
			return err
		}

		if req.DeclineReasons != nil {
			if deal.Stage != stage.Declined {
				return apperrors.ErrValidation.WithDetail("decline_reasons require stage %s", stage.Declined)
			}
			reasons := make(pq.StringArray, len(req.DeclineReasons))
			copy(reasons, req.DeclineReasons)
			deal.DeclineReasons = reasons
		}
		if grade != nil {
			deal.PaperGrade = grade
		}
		if req.RiskScore != nil {
			score := *req.RiskScore
			deal.RiskScore = &score
		}

		if err := s.save(ctx, repo, deal); err != nil {
			return err
		}
		if moved {
			if err := s.appendHistory(ctx, repo, deal, from, req.ActorID, req.Note, now); err != nil {
				return err
			}
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "patch", err)
	}

	s.invalidate(ctx, updated.ID, updated.Version)
	if moved {
		s.metrics.RecordTransition(string(from), string(updated.Stage))
	}
	s.logger.Info("deal patched",
		zap.Uint("deal_id", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Stage)),
		zap.Bool("stage_changed", moved),
		zap.Int("version", updated.Version),
	)
	return updated, nil
}

// patchTerms enforces the all-or-nothing rule for offer fields against the
// stage the deal ends up in.
func patchTerms(deal *models.Deal, req PatchRequest) error {
	if !req.touchesTerms() {
		if req.PaybackAmount != nil || req.DailyPayment != nil {
			return apperrors.ErrInvalidOfferInput.WithDetail("payback_amount and daily_payment are derived from approved_amount, factor_rate and term_days")
		}
		return nil
	}
	if req.ApprovedAmount == nil || req.FactorRate == nil || req.TermDays == nil {
		return apperrors.ErrInvalidOfferInput.WithDetail("approved_amount, factor_rate and term_days must be supplied together")
	}
	if !deal.Stage.CarriesOffer() {
		return apperrors.ErrInvalidOfferInput.WithDetail("offer terms require stage %s or later, deal is %s", stage.Approved, deal.Stage)
	}

	in := offer.Request{
		ApprovedAmount:     *req.ApprovedAmount,
		FactorRate:         *req.FactorRate,
		TermDays:           *req.TermDays,
		HoldbackPercentage: deal.HoldbackPercentage,
	}
	if deal.CommissionRate != nil {
		in.CommissionRate = *deal.CommissionRate
	}
	if deal.Position != nil {
		in.Position = *deal.Position
	}
	o, err := offer.Calculate(in)
	if err != nil {
		return err
	}

	if err := matchesDerived("payback_amount", req.PaybackAmount, o.PaybackAmount); err != nil {
		return err
	}
	if err := matchesDerived("daily_payment", req.DailyPayment, o.DailyPayment); err != nil {
		return err
	}

	applyOffer(deal, o)
	return nil
}

// matchesDerived accepts the exact derived value or its cent-rounded form.
func matchesDerived(field string, supplied *decimal.Decimal, derived decimal.Decimal) error {
	if supplied == nil || supplied.Equal(derived) || supplied.Equal(derived.Round(2)) {
		return nil
	}
	return apperrors.ErrInvalidOfferInput.WithDetail("%s %s does not match the derived value %s", field, supplied.String(), derived.String())
}
