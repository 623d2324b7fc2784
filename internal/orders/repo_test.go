package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  partition TEXT NOT NULL,
  user_id TEXT,
  subtotal NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  discount_code TEXT,
  discount_pct NUMERIC,
  ship_name TEXT NOT NULL,
  ship_email TEXT NOT NULL,
  ship_address TEXT NOT NULL,
  ship_city TEXT NOT NULL,
  ship_zip TEXT NOT NULL,
  card_last4 TEXT NOT NULL,
  card_expiry TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'processing',
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func buildOrder(userID *uuid.UUID, partition enums.OrderPartition, items int) *models.Order {
	order := &models.Order{
		Partition:      partition,
		UserID:         userID,
		Subtotal:       decimal.RequireFromString("25.00"),
		DiscountAmount: decimal.Zero,
		Tax:            decimal.RequireFromString("2.00"),
		Total:          decimal.RequireFromString("27.00"),
		ShipName:       "Erik Daae",
		ShipEmail:      "erik@example.com",
		ShipAddress:    "5 Rue Scribe",
		ShipCity:       "Paris",
		ShipZip:        "75009",
		CardLast4:      "4242",
		CardExpiry:     "12/27",
		Status:         enums.OrderStatusProcessing,
	}
	for i := 0; i < items; i++ {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: uuid.New(),
			Name:      "Moonlit Print",
			Price:     decimal.RequireFromString("25.00"),
			Quantity:  1,
		})
	}
	return order
}

func TestRepositoryCreateAndGet(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	created, err := repo.Create(context.Background(), buildOrder(&userID, enums.OrderPartitionUser, 2))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.Equal(t, created.ID, found.Items[0].OrderID)
	assert.Equal(t, 0, found.Items[0].Position)
	assert.Equal(t, 1, found.Items[1].Position)
	assert.Equal(t, "4242", found.CardLast4)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserScopesToOwner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	owner := uuid.New()
	other := uuid.New()

	_, err := repo.Create(context.Background(), buildOrder(&owner, enums.OrderPartitionUser, 1))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), buildOrder(&other, enums.OrderPartitionUser, 1))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), buildOrder(nil, enums.OrderPartitionGuest, 1))
	require.NoError(t, err)

	page, err := repo.ListByUser(context.Background(), owner, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, int64(1), page.Total)
	require.NotNil(t, page.Orders[0].UserID)
	assert.Equal(t, owner, *page.Orders[0].UserID)
}

func TestRepositoryListFiltersPartitionAndStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	userOrder, err := repo.Create(context.Background(), buildOrder(&userID, enums.OrderPartitionUser, 1))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), buildOrder(nil, enums.OrderPartitionGuest, 1))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(context.Background(), userOrder.ID, enums.OrderStatusShipped))

	guests, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilter{Partition: enums.OrderPartitionGuest})
	require.NoError(t, err)
	require.Len(t, guests.Orders, 1)
	assert.Equal(t, enums.OrderPartitionGuest, guests.Orders[0].Partition)

	shipped, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilter{Status: enums.OrderStatusShipped})
	require.NoError(t, err)
	require.Len(t, shipped.Orders, 1)
	assert.Equal(t, userOrder.ID, shipped.Orders[0].ID)
}

func TestRepositoryListPaginatesWithCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		order := buildOrder(nil, enums.OrderPartitionGuest, 0)
		order.ID = uuid.New()
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(order).Error)
	}

	first, err := repo.List(context.Background(), pagination.Params{Limit: 3}, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, first.Orders, 3)
	assert.Equal(t, int64(5), first.Total)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), pagination.Params{Limit: 3, Cursor: first.NextCursor}, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, second.Orders, 2)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryUpdateStatusNotFound(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusDelivered)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
