package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"

	"gorm.io/gorm"
)

type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new instance of DealRepository
func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(ctx context.Context, deal *models.Deal) error {
	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

func (r *dealRepository) GetByID(ctx context.Context, id uint) (*models.Deal, error) {
	var deal models.Deal
	if err := r.db.WithContext(ctx).First(&deal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDealNotFound
		}
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) GetDetailed(ctx context.Context, id uint) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.WithContext(ctx).
		Preload("Merchant.Owners").
		Preload("Underwriter").
		Preload("Broker").
		Preload("Documents").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC, id ASC")
		}).
		First(&deal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDealNotFound
		}
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) List(ctx context.Context, filter DealFilter, offset, limit int) ([]models.Deal, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Deal{})
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.UnderwriterID != 0 {
		query = query.Where("underwriter_id = ?", filter.UnderwriterID)
	}
	if filter.BrokerID != 0 {
		query = query.Where("broker_id = ?", filter.BrokerID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deals: %w", err)
	}

	var deals []models.Deal
	err := query.Preload("Merchant").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&deals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, total, nil
}

func (r *dealRepository) UpdateWithVersion(ctx context.Context, deal *models.Deal, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ? AND version = ?", deal.ID, expectedVersion).
		Updates(mutableColumns(deal))
	if result.Error != nil {
		return fmt.Errorf("failed to update deal %d: %w", deal.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConcurrentModification.WithDetail("deal %d is no longer at version %d", deal.ID, expectedVersion)
	}
	return nil
}

// mutableColumns lists every column a workflow call may change. A map is
// used so nil offer fields are written as NULL.
func mutableColumns(deal *models.Deal) map[string]interface{} {
	return map[string]interface{}{
		"underwriter_id":      deal.UnderwriterID,
		"broker_id":           deal.BrokerID,
		"requested_amount":    deal.RequestedAmount,
		"approved_amount":     deal.ApprovedAmount,
		"factor_rate":         deal.FactorRate,
		"term_days":           deal.TermDays,
		"payback_amount":      deal.PaybackAmount,
		"daily_payment":       deal.DailyPayment,
		"weekly_payment":      deal.WeeklyPayment,
		"holdback_percentage": deal.HoldbackPercentage,
		"commission_rate":     deal.CommissionRate,
		"commission":          deal.Commission,
		"position":            deal.Position,
		"paper_grade":         deal.PaperGrade,
		"risk_score":          deal.RiskScore,
		"decline_reasons":     deal.DeclineReasons,
		"decision_notes":      deal.DecisionNotes,
		"decided_at":          deal.DecidedAt,
		"decided_by_id":       deal.DecidedByID,
		"stage":               deal.Stage,
		"stage_changed_at":    deal.StageChangedAt,
		"version":             deal.Version,
		"updated_at":          time.Now(),
	}
}

func (r *dealRepository) AppendHistory(ctx context.Context, entry *models.StageHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append stage history: %w", err)
	}
	return nil
}

func (r *dealRepository) History(ctx context.Context, dealID uint) ([]models.StageHistory, error) {
	var entries []models.StageHistory
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("changed_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stage history: %w", err)
	}
	return entries, nil
}

func (r *dealRepository) CreateDecision(ctx context.Context, decision *models.UnderwritingDecision) error {
	if err := r.db.WithContext(ctx).Create(decision).Error; err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

func (r *dealRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.Comment{},
			&models.Document{},
			&models.StageHistory{},
			&models.UnderwritingDecision{},
		}
		for _, model := range dependents {
			if err := tx.Where("deal_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete deal %d dependents: %w", id, err)
			}
		}

		result := tx.Delete(&models.Deal{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete deal %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrDealNotFound
		}
		return nil
	})
}

func (r *dealRepository) PipelineSummary(ctx context.Context) ([]models.StageSummary, error) {
	var rows []models.StageSummary
	err := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Select("stage, COUNT(*) AS count, " +
			"COALESCE(SUM(requested_amount), 0) AS requested_total, " +
			"COALESCE(SUM(approved_amount), 0) AS approved_total").
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize pipeline: %w", err)
	}
	return rows, nil
}

func (r *dealRepository) ExecuteInTransaction(ctx context.Context, fn func(DealRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&dealRepository{db: tx})
	})
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListByDeal(ctx context.Context, dealID uint, offset, limit int) ([]models.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("deal_id = ?", dealID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []models.Comment
	if err := query.Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}
