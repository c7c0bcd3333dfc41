package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"mcadesk/internal/domain/stage"
)

// Deal is one funding application moving through the pipeline.
type Deal struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Reference     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	MerchantID    uint      `gorm:"index;not null" json:"merchant_id"`
	Merchant      *Merchant `gorm:"constraint:OnDelete:RESTRICT" json:"merchant,omitempty"`
	UnderwriterID *uint     `gorm:"index" json:"underwriter_id,omitempty"`
	Underwriter   *User     `gorm:"foreignKey:UnderwriterID" json:"underwriter,omitempty"`
	BrokerID      *uint     `gorm:"index" json:"broker_id,omitempty"`
	Broker        *User     `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`

	RequestedAmount    decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"requested_amount"`
	ApprovedAmount     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"approved_amount"`
	FactorRate         *decimal.Decimal `gorm:"type:numeric(6,4)" json:"factor_rate"`
	TermDays           *int             `json:"term_days"`
	PaybackAmount      *decimal.Decimal `gorm:"type:numeric" json:"payback_amount"`
	DailyPayment       *decimal.Decimal `gorm:"type:numeric" json:"daily_payment"`
	WeeklyPayment      *decimal.Decimal `gorm:"type:numeric" json:"weekly_payment"`
	HoldbackPercentage *decimal.Decimal `gorm:"type:numeric(5,2)" json:"holdback_percentage"`
	CommissionRate     *decimal.Decimal `gorm:"type:numeric(6,4)" json:"commission_rate"`
	Commission         *decimal.Decimal `gorm:"type:numeric" json:"commission"`
	Position           *int             `json:"position"`

	PaperGrade     *string        `gorm:"size:1" json:"paper_grade"`
	RiskScore      *int           `json:"risk_score"`
	DeclineReasons pq.StringArray `gorm:"type:text[]" json:"decline_reasons"`
	DecisionNotes  string         `json:"decision_notes,omitempty"`
	DecidedAt      *time.Time     `json:"decided_at,omitempty"`
	DecidedByID    *uint          `json:"decided_by_id,omitempty"`

	Stage          stage.Stage `gorm:"type:varchar(32);index;not null" json:"stage"`
	StageChangedAt time.Time   `gorm:"not null" json:"stage_changed_at"`
	Version        int         `gorm:"not null;default:1" json:"version"`

	Documents []Document     `json:"documents,omitempty"`
	Comments  []Comment      `json:"comments,omitempty"`
	History   []StageHistory `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasOffer reports whether any field cleared by ClearTerms is populated.
func (d *Deal) HasOffer() bool {
	return d.ApprovedAmount != nil || d.FactorRate != nil || d.TermDays != nil ||
		d.PaybackAmount != nil || d.DailyPayment != nil || d.WeeklyPayment != nil ||
		d.HoldbackPercentage != nil || d.CommissionRate != nil || d.Commission != nil ||
		d.Position != nil
}

// ClearTerms resets the financial terms of the offer.
func (d *Deal) ClearTerms() {
	d.ApprovedAmount = nil
	d.FactorRate = nil
	d.TermDays = nil
	d.PaybackAmount = nil
	d.DailyPayment = nil
	d.WeeklyPayment = nil
	d.HoldbackPercentage = nil
	d.CommissionRate = nil
	d.Commission = nil
	d.Position = nil
}

// ClearDecision resets the terms and every underwriting snapshot field.
func (d *Deal) ClearDecision() {
	d.ClearTerms()
	d.PaperGrade = nil
	d.RiskScore = nil
	d.DeclineReasons = nil
	d.DecisionNotes = ""
	d.DecidedAt = nil
	d.DecidedByID = nil
}

// StageHistory is an append-only record of one stage transition.
type StageHistory struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	DealID      uint        `gorm:"index;not null" json:"deal_id"`
	FromStage   stage.Stage `gorm:"type:varchar(32)" json:"from_stage"`
	ToStage     stage.Stage `gorm:"type:varchar(32);not null" json:"to_stage"`
	ChangedByID *uint       `json:"changed_by_id,omitempty"`
	Note        string      `json:"note,omitempty"`
	ChangedAt   time.Time   `gorm:"not null" json:"changed_at"`
}

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DealID    uint      `gorm:"index;not null" json:"deal_id"`
	AuthorID  *uint     `json:"author_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Document struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DealID    uint      `gorm:"index;not null" json:"deal_id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	Status    string    `gorm:"default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UnderwritingDecision keeps the offer snapshot of every committed decision.
type UnderwritingDecision struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	DealID         uint           `gorm:"index;not null" json:"deal_id"`
	Kind           string         `gorm:"type:varchar(16);not null" json:"kind"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	DecidedByID    *uint          `json:"decided_by_id,omitempty"`
	OfferSnapshot  JSON           `gorm:"type:jsonb" json:"offer_snapshot,omitempty"`
	DeclineReasons pq.StringArray `gorm:"type:text[]" json:"decline_reasons,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
