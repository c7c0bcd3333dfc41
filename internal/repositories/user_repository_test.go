package repositories

import (
	"context"
	"testing"

	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes email", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
			WithArgs("uw@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		user := &models.User{Email: "  UW@Example.com ", Password: "hash", Name: "Uma"}
		require.NoError(t, NewUserRepository(db).Create(ctx, user))
		assert.Equal(t, "uw@example.com", user.Email)
		assert.Equal(t, uint(1), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := NewUserRepository(db).Create(ctx, &models.User{Email: "uw@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepository(db).GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_IncrementTokenVersion(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "users" SET "token_version"=token_version \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users" SET "token_version"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	require.NoError(t, repo.IncrementTokenVersion(ctx, 4))
	assert.ErrorIs(t, repo.IncrementTokenVersion(ctx, 5), apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
