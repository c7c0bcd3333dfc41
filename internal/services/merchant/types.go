package merchant

import "github.com/shopspring/decimal"

// Input types for merchant operations
type CreateMerchantInput struct {
	LegalName            string                 `json:"legal_name"`
	DBAName              string                 `json:"dba_name"`
	Industry             string                 `json:"industry"`
	State                string                 `json:"state"`
	MonthlyRevenue       decimal.Decimal        `json:"monthly_revenue"`
	TimeInBusinessMonths int                    `json:"time_in_business_months"`
	Metadata             map[string]interface{} `json:"metadata"`
	Owners               []OwnerInput           `json:"owners"`
}

type OwnerInput struct {
	FirstName           string          `json:"first_name"`
	LastName            string          `json:"last_name"`
	Email               string          `json:"email"`
	FicoScore           *int            `json:"fico_score"`
	OwnershipPercentage decimal.Decimal `json:"ownership_percentage"`
}
