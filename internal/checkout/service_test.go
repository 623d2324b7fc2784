package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/internal/cart"
	"github.com/shadowgallery/shadowgallery-backend/internal/catalog"
	"github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	"github.com/shadowgallery/shadowgallery-backend/internal/orders"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
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

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type memoryCartStore struct {
	carts   map[string]*cart.Cart
	deleted []string
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: map[string]*cart.Cart{}}
}

func (s *memoryCartStore) Load(ctx context.Context, cartToken string) (*cart.Cart, error) {
	if snapshot, ok := s.carts[cartToken]; ok {
		return snapshot, nil
	}
	return cart.NewCart(), nil
}

func (s *memoryCartStore) Delete(ctx context.Context, cartToken string) error {
	delete(s.carts, cartToken)
	s.deleted = append(s.deleted, cartToken)
	return nil
}

type stubResolver struct {
	codes map[string]decimal.Decimal
}

func (r *stubResolver) Resolve(ctx context.Context, code string) (*discounts.ResolvedCode, error) {
	if percent, ok := r.codes[code]; ok {
		return &discounts.ResolvedCode{Code: code, Percent: percent}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid discount code")
}

type checkoutFixture struct {
	db       *gorm.DB
	carts    *memoryCartStore
	resolver *stubResolver
	svc      Service
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	carts := newMemoryCartStore()
	resolver := &stubResolver{codes: map[string]decimal.Decimal{}}

	svc, err := NewService(Params{
		Tx:             &gormTxRunner{db: db},
		Carts:          carts,
		Catalog:        catalog.NewRepository(db),
		Orders:         orders.NewRepository(db),
		Resolver:       resolver,
		TaxRatePercent: "8",
	})
	require.NoError(t, err)

	return &checkoutFixture{db: db, carts: carts, resolver: resolver, svc: svc}
}

func (f *checkoutFixture) seedProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *checkoutFixture) seedCart(token string, lines ...cart.Line) *cart.Cart {
	snapshot := cart.NewCart()
	snapshot.Lines = lines
	f.carts.carts[token] = snapshot
	return snapshot
}

func validInput(token string) PlaceOrderInput {
	return PlaceOrderInput{
		CartToken: token,
		Shipping: ShippingDetails{
			Name:    "Erik Daae",
			Email:   "erik@example.com",
			Address: "5 Rue Scribe",
			City:    "Paris",
			Zip:     "75009",
		},
		Payment: PaymentDetails{
			CardNumber: "4242 4242 4242 4242",
			Expiry:     "12/27",
			CVC:        "123",
		},
	}
}

func (f *checkoutFixture) orderCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	return count
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), validInput("empty-cart"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeEmptyCart, pkgerrors.As(err).Code())
	assert.Equal(t, int64(0), f.orderCount(t))
	assert.Empty(t, f.carts.deleted)
}

func TestPlaceOrderGuestSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(t, "Moonlit Print", "25.00", 4)
	f.seedCart("guest-cart", cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})

	order, err := f.svc.PlaceOrder(context.Background(), validInput("guest-cart"))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderPartitionGuest, order.Partition)
	assert.Nil(t, order.UserID)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("27.00")))
	assert.Equal(t, "4242", order.CardLast4)
	assert.Equal(t, "12/27", order.CardExpiry)
	assert.Equal(t, enums.OrderStatusProcessing, order.Status)

	var stored models.Product
	require.NoError(t, f.db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 3, stored.Stock)

	assert.Contains(t, f.carts.deleted, "guest-cart")
}

func TestPlaceOrderUserPartition(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(t, "Velvet Mask", "40.00", 2)
	f.seedCart("user-cart", cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})

	userID := uuid.New()
	input := validInput("user-cart")
	input.UserID = &userID

	order, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderPartitionUser, order.Partition)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	plenty := f.seedProduct(t, "Plentiful", "10.00", 10)
	scarce := f.seedProduct(t, "Scarce Print", "30.00", 1)
	f.seedCart("hungry-cart",
		cart.Line{ProductID: plenty.ID, Name: plenty.Name, Price: plenty.Price, Quantity: 2},
		cart.Line{ProductID: scarce.ID, Name: scarce.Name, Price: scarce.Price, Quantity: 3},
	)

	_, err := f.svc.PlaceOrder(context.Background(), validInput("hungry-cart"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Contains(t, typed.Error(), "Scarce Print")

	assert.Equal(t, int64(0), f.orderCount(t))

	var stored models.Product
	require.NoError(t, f.db.First(&stored, "id = ?", plenty.ID).Error)
	assert.Equal(t, 10, stored.Stock)

	_, ok := f.carts.carts["hungry-cart"]
	assert.True(t, ok)
}

func TestPlaceOrderVanishedProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart("stale-cart", cart.Line{
		ProductID: uuid.New(),
		Name:      "Ghost Print",
		Price:     decimal.NewFromInt(15),
		Quantity:  1,
	})

	_, err := f.svc.PlaceOrder(context.Background(), validInput("stale-cart"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Equal(t, int64(0), f.orderCount(t))
}

func TestPlaceOrderAppliesRevalidatedDiscount(t *testing.T) {
	f := newCheckoutFixture(t)
	f.resolver.codes["SHADOW10"] = decimal.NewFromInt(10)

	product := f.seedProduct(t, "Moonlit Print", "25.00", 4)
	snapshot := f.seedCart("discounted", cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})
	snapshot.Discount = &cart.AppliedDiscount{Code: "SHADOW10", Percent: decimal.NewFromInt(10)}

	order, err := f.svc.PlaceOrder(context.Background(), validInput("discounted"))
	require.NoError(t, err)

	require.NotNil(t, order.DiscountCode)
	assert.Equal(t, "SHADOW10", *order.DiscountCode)
	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("1.80")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("24.30")))
}

func TestPlaceOrderDropsDeletedDiscount(t *testing.T) {
	f := newCheckoutFixture(t)

	product := f.seedProduct(t, "Moonlit Print", "25.00", 4)
	snapshot := f.seedCart("stale-discount", cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})
	snapshot.Discount = &cart.AppliedDiscount{Code: "RETIRED", Percent: decimal.NewFromInt(50)}

	order, err := f.svc.PlaceOrder(context.Background(), validInput("stale-discount"))
	require.NoError(t, err)

	assert.Nil(t, order.DiscountCode)
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.Total.Equal(decimal.RequireFromString("27.00")))
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newCheckoutFixture(t)

	input := validInput("cart")
	input.Shipping.Email = "not-an-email"
	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = validInput("cart")
	input.Payment.CardNumber = "1234"
	_, err = f.svc.PlaceOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = validInput("cart")
	input.Payment.Expiry = ""
	_, err = f.svc.PlaceOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRedactCardNumber(t *testing.T) {
	t.Parallel()

	last4, err := redactCardNumber("4242-4242-4242-4242")
	require.NoError(t, err)
	assert.Equal(t, "4242", last4)

	_, err = redactCardNumber("4242 4242 abcd 4242")
	assert.Error(t, err)
}
