package deal

import (
	"strings"

	"mcadesk/internal/domain/offer"
	"mcadesk/internal/domain/stage"
	"mcadesk/internal/models"

	"github.com/shopspring/decimal"
)

// DecisionKind is the outcome an underwriter records against a deal.
type DecisionKind string

const (
	DecisionApprove DecisionKind = "APPROVE"
	DecisionDecline DecisionKind = "DECLINE"
	DecisionCounter DecisionKind = "COUNTER"
)

func ParseDecisionKind(v string) (DecisionKind, bool) {
	k := DecisionKind(strings.ToUpper(strings.TrimSpace(v)))
	switch k {
	case DecisionApprove, DecisionDecline, DecisionCounter:
		return k, true
	}
	return "", false
}

type CreateRequest struct {
	MerchantID      uint            `json:"merchant_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	UnderwriterID   *uint           `json:"underwriter_id,omitempty"`
	BrokerID        *uint           `json:"broker_id,omitempty"`
	Note            string          `json:"note,omitempty"`
	ActorID         *uint           `json:"-"`
}

// TransitionRequest moves a deal to To. Version, when set, must equal the
// deal's current version.
type TransitionRequest struct {
	DealID  uint        `json:"-"`
	ActorID *uint       `json:"-"`
	To      stage.Stage `json:"stage"`
	Note    string      `json:"note,omitempty"`
	Version *int        `json:"version,omitempty"`
}

type TransitionOptions struct {
	DealID  uint          `json:"deal_id"`
	Current stage.Stage   `json:"current"`
	Next    []stage.Stage `json:"next"`
	Version int           `json:"version"`
}

type DecisionRequest struct {
	DealID         uint           `json:"-"`
	ActorID        *uint          `json:"-"`
	Kind           DecisionKind   `json:"decision"`
	Notes          string         `json:"notes,omitempty"`
	Offer          *offer.Request `json:"offer,omitempty"`
	DeclineReasons []string       `json:"decline_reasons,omitempty"`
	PaperGrade     *string        `json:"paper_grade,omitempty"`
	RiskScore      *int           `json:"risk_score,omitempty"`
	Version        *int           `json:"version,omitempty"`
}

// DecisionResult reports what a decision did. Committed is false for
// COUNTER, whose Offer is for display only.
type DecisionResult struct {
	Kind      DecisionKind   `json:"decision"`
	Deal      *models.Deal   `json:"deal"`
	Offer     *offer.Offer   `json:"offer,omitempty"`
	Summary   *offer.Summary `json:"summary,omitempty"`
	Committed bool           `json:"committed"`
}

// PatchRequest is a partial update. Nil fields are left untouched;
// DeclineReasons is untouched when nil.
type PatchRequest struct {
	DealID         uint             `json:"-"`
	ActorID        *uint            `json:"-"`
	Version        *int             `json:"version,omitempty"`
	Stage          *stage.Stage     `json:"stage,omitempty"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount,omitempty"`
	FactorRate     *decimal.Decimal `json:"factor_rate,omitempty"`
	TermDays       *int             `json:"term_days,omitempty"`
	PaybackAmount  *decimal.Decimal `json:"payback_amount,omitempty"`
	DailyPayment   *decimal.Decimal `json:"daily_payment,omitempty"`
	PaperGrade     *string          `json:"paper_grade,omitempty"`
	RiskScore      *int             `json:"risk_score,omitempty"`
	DeclineReasons []string         `json:"decline_reasons,omitempty"`
	Note           string           `json:"note,omitempty"`
}

func (r PatchRequest) touchesTerms() bool {
	return r.ApprovedAmount != nil || r.FactorRate != nil || r.TermDays != nil
}

func (r PatchRequest) empty() bool {
	return r.Stage == nil && !r.touchesTerms() && r.PaybackAmount == nil &&
		r.DailyPayment == nil && r.PaperGrade == nil && r.RiskScore == nil &&
		r.DeclineReasons == nil
}

type CommentRequest struct {
	DealID   uint   `json:"-"`
	AuthorID *uint  `json:"-"`
	Content  string `json:"content"`
}
