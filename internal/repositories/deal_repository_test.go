package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"mcadesk/internal/domain/stage"
	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func testDeal() *models.Deal {
	return &models.Deal{
		ID:              7,
		MerchantID:      3,
		RequestedAmount: decimal.NewFromInt(25000),
		Stage:           stage.DocsReceived,
		StageChangedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Version:         5,
	}
}

func TestDealRepository_UpdateWithVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps when the version matches", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "deals" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewDealRepository(db).UpdateWithVersion(ctx, testDeal(), 4)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "deals" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewDealRepository(db).UpdateWithVersion(ctx, testDeal(), 4)
		assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage error passes through", func(t *testing.T) {
		db, mock := newMockDB(t)
		storageErr := errors.New("connection reset by peer")
		mock.ExpectExec(`UPDATE "deals" SET`).WillReturnError(storageErr)

		err := NewDealRepository(db).UpdateWithVersion(ctx, testDeal(), 4)
		assert.ErrorIs(t, err, storageErr)
	})
}

func TestDealRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "deals" WHERE "deals"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewDealRepository(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrDealNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealRepository_TransactionRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "deals" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "stage_histories"`).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	repo := NewDealRepository(db)
	err := repo.ExecuteInTransaction(context.Background(), func(tx DealRepository) error {
		if err := tx.UpdateWithVersion(context.Background(), testDeal(), 4); err != nil {
			return err
		}
		return tx.AppendHistory(context.Background(), &models.StageHistory{
			DealID:    7,
			FromStage: stage.DocsReceived,
			ToStage:   stage.InUnderwriting,
			ChangedAt: time.Now(),
		})
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealRepository_TransactionCommits(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "deals" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "stage_histories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	entry := &models.StageHistory{DealID: 7, FromStage: stage.DocsReceived, ToStage: stage.InUnderwriting, ChangedAt: time.Now()}
	err := NewDealRepository(db).ExecuteInTransaction(context.Background(), func(tx DealRepository) error {
		if err := tx.UpdateWithVersion(context.Background(), testDeal(), 4); err != nil {
			return err
		}
		return tx.AppendHistory(context.Background(), entry)
	})
	require.NoError(t, err)
	assert.Equal(t, uint(12), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to dependents", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "comments" WHERE deal_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "documents" WHERE deal_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "stage_histories" WHERE deal_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM "underwriting_decisions" WHERE deal_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "deals" WHERE "deals"."id" = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewDealRepository(db).Delete(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing deal rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		for i := 0; i < 4; i++ {
			mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec(`DELETE FROM "deals"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := NewDealRepository(db).Delete(ctx, 7)
		assert.ErrorIs(t, err, apperrors.ErrDealNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDealRepository_PipelineSummary(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT stage, COUNT\(\*\) AS count`).
		WillReturnRows(sqlmock.NewRows([]string{"stage", "count", "requested_total", "approved_total"}).
			AddRow("NEW_LEAD", 3, "75000.00", "0").
			AddRow("FUNDED", 1, "20000.00", "18000.00"))

	rows, err := NewDealRepository(db).PipelineSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "FUNDED", rows[1].Stage)
	assert.Equal(t, int64(1), rows[1].Count)
	assert.True(t, rows[1].ApprovedTotal.Equal(decimal.NewFromInt(18000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
