package discounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDiscountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS discount_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  percent NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newCode(code, percent string) *models.DiscountCode {
	return &models.DiscountCode{
		Code:    code,
		Percent: decimal.RequireFromString(percent),
	}
}

func TestRepositoryCreateAndFindByCode(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), newCode("SHADOW10", "10"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByCode(context.Background(), "SHADOW10")
	require.NoError(t, err)
	assert.Equal(t, "SHADOW10", found.Code)
	assert.True(t, found.Percent.Equal(decimal.NewFromInt(10)))

	_, err = repo.FindByCode(context.Background(), "MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateDuplicateCode(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Create(context.Background(), newCode("TWICE", "10"))
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), newCode("TWICE", "20"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), newCode("GONE", "5"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID), gorm.ErrRecordNotFound)
}

func TestRepositoryList(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Create(context.Background(), newCode("A10", "10"))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), newCode("B20", "20"))
	require.NoError(t, err)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
