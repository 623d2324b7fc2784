package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedWishlistProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromInt(10),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryAddIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedWishlistProduct(t, db, "Moonlit Print")

	require.NoError(t, repo.Add(context.Background(), userID, product.ID))
	require.NoError(t, repo.Add(context.Background(), userID, product.ID))

	products, err := repo.ListProducts(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestRepositoryRemoveIsIdempotent(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedWishlistProduct(t, db, "Velvet Mask")

	require.NoError(t, repo.Add(context.Background(), userID, product.ID))
	require.NoError(t, repo.Remove(context.Background(), userID, product.ID))
	require.NoError(t, repo.Remove(context.Background(), userID, product.ID))

	products, err := repo.ListProducts(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRepositoryListNewestFirstAndScoped(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	otherID := uuid.New()
	first := seedWishlistProduct(t, db, "First Saved")
	second := seedWishlistProduct(t, db, "Second Saved")

	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.WishlistItem{
		ID: uuid.New(), UserID: userID, ProductID: first.ID, CreatedAt: base,
	}).Error)
	require.NoError(t, db.Create(&models.WishlistItem{
		ID: uuid.New(), UserID: userID, ProductID: second.ID, CreatedAt: base.Add(time.Minute),
	}).Error)
	require.NoError(t, repo.Add(context.Background(), otherID, first.ID))

	products, err := repo.ListProducts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Second Saved", products[0].Name)
	assert.Equal(t, "First Saved", products[1].Name)
}

func TestRepositoryListSkipsDeletedProducts(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedWishlistProduct(t, db, "Ephemeral")
	require.NoError(t, repo.Add(context.Background(), userID, product.ID))

	require.NoError(t, db.Delete(&models.Product{}, "id = ?", product.ID).Error)

	products, err := repo.ListProducts(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRepositoryContains(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedWishlistProduct(t, db, "Moonlit Print")

	saved, err := repo.Contains(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	require.NoError(t, repo.Add(context.Background(), userID, product.ID))

	saved, err = repo.Contains(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}
