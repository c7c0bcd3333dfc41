package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, search string, offset, limit int) ([]models.Merchant, int64, error)
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

// Create inserts the merchant together with its owners.
func (r *merchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	if err := r.db.WithContext(ctx).Create(merchant).Error; err != nil {
		return fmt.Errorf("failed to create merchant: %w", err)
	}
	return nil
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Preload("Owners").First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Merchant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *merchantRepository) List(ctx context.Context, search string, offset, limit int) ([]models.Merchant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Merchant{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("legal_name ILIKE ? OR dba_name ILIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count merchants: %w", err)
	}

	var merchants []models.Merchant
	if err := query.Order("legal_name ASC").Offset(offset).Limit(limit).Find(&merchants).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list merchants: %w", err)
	}
	return merchants, total, nil
}
