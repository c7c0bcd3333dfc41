package merchant

import (
	"context"
	"fmt"
	"strings"

	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	CreateMerchant(ctx context.Context, input CreateMerchantInput) (*models.Merchant, error)
	GetMerchant(ctx context.Context, id uint) (*models.Merchant, error)
	ListMerchants(ctx context.Context, search string, offset, limit int) ([]models.Merchant, int64, error)
}

type service struct {
	repo   repositories.MerchantRepository
	logger *zap.Logger
}

func NewService(repo repositories.MerchantRepository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger.Named("merchant")}
}

func (s *service) CreateMerchant(ctx context.Context, input CreateMerchantInput) (*models.Merchant, error) {
	if err := validateMerchant(&input); err != nil {
		return nil, err
	}

	merchant := &models.Merchant{
		LegalName:            input.LegalName,
		DBAName:              strings.TrimSpace(input.DBAName),
		Industry:             strings.TrimSpace(input.Industry),
		State:                strings.ToUpper(strings.TrimSpace(input.State)),
		MonthlyRevenue:       input.MonthlyRevenue,
		TimeInBusinessMonths: input.TimeInBusinessMonths,
		Metadata:             models.JSON(input.Metadata),
	}
	for _, o := range input.Owners {
		merchant.Owners = append(merchant.Owners, models.MerchantOwner{
			FirstName:           strings.TrimSpace(o.FirstName),
			LastName:            strings.TrimSpace(o.LastName),
			Email:               strings.ToLower(strings.TrimSpace(o.Email)),
			FicoScore:           o.FicoScore,
			OwnershipPercentage: o.OwnershipPercentage,
		})
	}

	if err := s.repo.Create(ctx, merchant); err != nil {
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	s.logger.Info("merchant created",
		zap.Uint("merchant_id", merchant.ID),
		zap.Int("owners", len(merchant.Owners)),
	)
	return merchant, nil
}

func (s *service) GetMerchant(ctx context.Context, id uint) (*models.Merchant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMerchants(ctx context.Context, search string, offset, limit int) ([]models.Merchant, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), offset, limit)
}

// validateMerchant checks the merchant and its owners. Combined ownership
// may not exceed 100%.
func validateMerchant(input *CreateMerchantInput) error {
	input.LegalName = strings.TrimSpace(input.LegalName)

	v := validation.New()
	v.Required("legal_name", input.LegalName)
	v.MaxLength("legal_name", input.LegalName, validation.MaxLegalNameLength)
	v.Check(!input.MonthlyRevenue.IsNegative(), "monthly_revenue", "must not be negative")
	v.Check(input.TimeInBusinessMonths >= 0, "time_in_business_months", "must not be negative")
	if input.State != "" {
		v.Check(len(strings.TrimSpace(input.State)) == 2, "state", "must be a two-letter code")
	}
	v.Check(len(input.Owners) <= validation.MaxOwnersPerMerchant, "owners",
		fmt.Sprintf("must not exceed %d entries", validation.MaxOwnersPerMerchant))

	total := decimal.Zero
	for i, o := range input.Owners {
		field := fmt.Sprintf("owners[%d]", i)
		v.Required(field+".first_name", o.FirstName)
		v.Required(field+".last_name", o.LastName)
		if o.Email != "" {
			v.Email(field+".email", o.Email)
		}
		if o.FicoScore != nil {
			v.IntRange(field+".fico_score", *o.FicoScore, validation.MinFicoScore, validation.MaxFicoScore)
		}
		v.DecimalRange(field+".ownership_percentage", o.OwnershipPercentage, 0, 100)
		total = total.Add(o.OwnershipPercentage)
	}
	v.Check(total.LessThanOrEqual(decimal.NewFromInt(100)), "owners", "ownership must not exceed 100%")

	return v.Err()
}
