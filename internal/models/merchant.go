package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Merchant struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	LegalName            string          `gorm:"not null" json:"legal_name"`
	DBAName              string          `json:"dba_name"`
	Industry             string          `json:"industry"`
	State                string          `gorm:"size:2" json:"state"`
	MonthlyRevenue       decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"monthly_revenue"`
	TimeInBusinessMonths int             `gorm:"default:0" json:"time_in_business_months"`
	Metadata             JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	Owners               []MerchantOwner `gorm:"constraint:OnDelete:CASCADE" json:"owners,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type MerchantOwner struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	MerchantID          uint            `gorm:"index;not null" json:"merchant_id"`
	FirstName           string          `gorm:"not null" json:"first_name"`
	LastName            string          `gorm:"not null" json:"last_name"`
	Email               string          `json:"email,omitempty"`
	FicoScore           *int            `json:"fico_score,omitempty"`
	OwnershipPercentage decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"ownership_percentage"`
	CreatedAt           time.Time       `json:"created_at"`
}
