// Package offer derives the financial terms of a merchant cash advance
// offer. All arithmetic is exact decimal arithmetic; rounding only happens
// when a value is formatted for display.
package offer

import (
	"github.com/shopspring/decimal"

	apperrors "mcadesk/internal/errors"
)

const DaysPerWeek = 7

// Storage precision of the offer columns: amounts are numeric(14,2), rates
// numeric(6,4) and the holdback numeric(5,2).
const (
	AmountPlaces   = 2
	RatePlaces     = 4
	HoldbackPlaces = 2
)

var (
	hundred   = decimal.NewFromInt(100)
	MaxAmount = decimal.RequireFromString("999999999999.99")
	MaxRate   = decimal.RequireFromString("99.9999")
)

// fits reports whether d has at most places decimals and does not exceed max.
func fits(d decimal.Decimal, places int32, max decimal.Decimal) bool {
	return d.Equal(d.Truncate(places)) && d.LessThanOrEqual(max)
}

// FitsAmount reports whether d can be stored in an amount column.
func FitsAmount(d decimal.Decimal) bool {
	return fits(d, AmountPlaces, MaxAmount)
}

// Request carries the caller-supplied inputs of one offer calculation.
type Request struct {
	ApprovedAmount     decimal.Decimal  `json:"approved_amount"`
	FactorRate         decimal.Decimal  `json:"factor_rate"`
	TermDays           int              `json:"term_days"`
	HoldbackPercentage *decimal.Decimal `json:"holdback_percentage,omitempty"`
	CommissionRate     decimal.Decimal  `json:"commission_rate"`
	Position           int              `json:"position"`
}

// Offer is the computed result. Input fields are echoed back unchanged.
type Offer struct {
	ApprovedAmount     decimal.Decimal  `json:"approved_amount"`
	FactorRate         decimal.Decimal  `json:"factor_rate"`
	TermDays           int              `json:"term_days"`
	PaybackAmount      decimal.Decimal  `json:"payback_amount"`
	DailyPayment       decimal.Decimal  `json:"daily_payment"`
	WeeklyPayment      decimal.Decimal  `json:"weekly_payment"`
	HoldbackPercentage *decimal.Decimal `json:"holdback_percentage,omitempty"`
	CommissionRate     decimal.Decimal  `json:"commission_rate"`
	Commission         decimal.Decimal  `json:"commission"`
	Position           int              `json:"position"`
}

// Validate rejects inputs that would make the calculation meaningless,
// including the zero term that would otherwise divide by zero, and inputs
// that cannot be stored without rounding.
func (r Request) Validate() error {
	switch {
	case !r.ApprovedAmount.IsPositive():
		return apperrors.ErrInvalidOfferInput.WithDetail("approved amount must be positive")
	case !FitsAmount(r.ApprovedAmount):
		return apperrors.ErrInvalidOfferInput.WithDetail("approved amount must have at most %d decimal places and not exceed %s", AmountPlaces, MaxAmount)
	case !r.FactorRate.IsPositive():
		return apperrors.ErrInvalidOfferInput.WithDetail("factor rate must be positive")
	case !fits(r.FactorRate, RatePlaces, MaxRate):
		return apperrors.ErrInvalidOfferInput.WithDetail("factor rate must have at most %d decimal places and not exceed %s", RatePlaces, MaxRate)
	case r.TermDays <= 0:
		return apperrors.ErrInvalidOfferInput.WithDetail("term days must be positive")
	case r.CommissionRate.IsNegative():
		return apperrors.ErrInvalidOfferInput.WithDetail("commission rate must not be negative")
	case !fits(r.CommissionRate, RatePlaces, MaxRate):
		return apperrors.ErrInvalidOfferInput.WithDetail("commission rate must have at most %d decimal places and not exceed %s", RatePlaces, MaxRate)
	case r.Position < 0:
		return apperrors.ErrInvalidOfferInput.WithDetail("position must not be negative")
	}
	if h := r.HoldbackPercentage; h != nil {
		if h.IsNegative() || h.GreaterThan(hundred) {
			return apperrors.ErrInvalidOfferInput.WithDetail("holdback percentage must be between 0 and 100")
		}
		if !h.Equal(h.Truncate(HoldbackPlaces)) {
			return apperrors.ErrInvalidOfferInput.WithDetail("holdback percentage must have at most %d decimal places", HoldbackPlaces)
		}
	}
	return nil
}

// Calculate computes payback, daily and weekly payments and the broker
// commission for r.
func Calculate(r Request) (*Offer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	payback := r.ApprovedAmount.Mul(r.FactorRate)
	daily := payback.Div(decimal.NewFromInt(int64(r.TermDays)))

	return &Offer{
		ApprovedAmount:     r.ApprovedAmount,
		FactorRate:         r.FactorRate,
		TermDays:           r.TermDays,
		PaybackAmount:      payback,
		DailyPayment:       daily,
		WeeklyPayment:      daily.Mul(decimal.NewFromInt(DaysPerWeek)),
		HoldbackPercentage: r.HoldbackPercentage,
		CommissionRate:     r.CommissionRate,
		Commission:         r.ApprovedAmount.Mul(r.CommissionRate),
		Position:           r.Position,
	}, nil
}

// Currency formats d with two decimal places.
func Currency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Summary is the display form of an Offer's money fields.
type Summary struct {
	ApprovedAmount string `json:"approved_amount"`
	PaybackAmount  string `json:"payback_amount"`
	DailyPayment   string `json:"daily_payment"`
	WeeklyPayment  string `json:"weekly_payment"`
	Commission     string `json:"commission"`
}

func (o *Offer) Summary() Summary {
	return Summary{
		ApprovedAmount: Currency(o.ApprovedAmount),
		PaybackAmount:  Currency(o.PaybackAmount),
		DailyPayment:   Currency(o.DailyPayment),
		WeeklyPayment:  Currency(o.WeeklyPayment),
		Commission:     Currency(o.Commission),
	}
}
