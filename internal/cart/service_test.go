package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCartStore struct {
	carts   map[string]*Cart
	deleted []string
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: make(map[string]*Cart)}
}

func (m *memoryCartStore) Load(ctx context.Context, token string) (*Cart, error) {
	if cart, ok := m.carts[token]; ok {
		return cart, nil
	}
	return NewCart(), nil
}

func (m *memoryCartStore) Save(ctx context.Context, token string, cart *Cart) error {
	m.carts[token] = cart
	return nil
}

func (m *memoryCartStore) Delete(ctx context.Context, token string) error {
	delete(m.carts, token)
	m.deleted = append(m.deleted, token)
	return nil
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubResolver struct {
	codes map[string]decimal.Decimal
}

func (s *stubResolver) Resolve(ctx context.Context, code string) (*discounts.ResolvedCode, error) {
	if percent, ok := s.codes[code]; ok {
		return &discounts.ResolvedCode{Code: code, Percent: percent}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid discount code")
}

func newTestService(t *testing.T, store cartStore, products map[uuid.UUID]*models.Product, codes map[string]decimal.Decimal, revoke bool) Service {
	t.Helper()
	svc, err := NewService(Params{
		Store:                       store,
		Products:                    &stubProductLoader{products: products},
		Resolver:                    &stubResolver{codes: codes},
		TaxRatePercent:              "8",
		RevokeDiscountOnFailedApply: revoke,
	})
	require.NoError(t, err)
	return svc
}

func testProduct(price string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Obsidian Mask",
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		ImageURL: "https://cdn.example.com/mask.png",
	}
}

func TestServiceAddItemSnapshotsProduct(t *testing.T) {
	t.Parallel()

	product := testProduct("25.00")
	store := newMemoryCartStore()
	svc := newTestService(t, store, map[uuid.UUID]*models.Product{product.ID: product}, nil, false)

	view, err := svc.AddItem(context.Background(), "tok", product.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, product.Name, view.Lines[0].Name)
	assert.True(t, view.Lines[0].Price.Equal(product.Price))
	assert.True(t, view.Totals.Total.Equal(decimal.RequireFromString("27.00")), "total %s", view.Totals.Total)

	view, err = svc.AddItem(context.Background(), "tok", product.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryCartStore(), nil, nil, false)

	_, err := svc.AddItem(context.Background(), "tok", uuid.New(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceApplyDiscountSuccess(t *testing.T) {
	t.Parallel()

	product := testProduct("25.00")
	store := newMemoryCartStore()
	codes := map[string]decimal.Decimal{"SHADOW10": decimal.NewFromInt(10)}
	svc := newTestService(t, store, map[uuid.UUID]*models.Product{product.ID: product}, codes, false)

	_, err := svc.AddItem(context.Background(), "tok", product.ID, 1)
	require.NoError(t, err)

	view, err := svc.ApplyDiscount(context.Background(), "tok", "  shadow10 ")
	require.NoError(t, err)
	require.NotNil(t, view.Discount)
	assert.Equal(t, "SHADOW10", view.Discount.Code)
	assert.True(t, view.Totals.Total.Equal(decimal.RequireFromString("24.30")), "total %s", view.Totals.Total)
}

func TestServiceApplyDiscountMissKeepsExisting(t *testing.T) {
	t.Parallel()

	store := newMemoryCartStore()
	codes := map[string]decimal.Decimal{"SHADOW10": decimal.NewFromInt(10)}
	svc := newTestService(t, store, nil, codes, false)

	_, err := svc.ApplyDiscount(context.Background(), "tok", "SHADOW10")
	require.NoError(t, err)

	_, err = svc.ApplyDiscount(context.Background(), "tok", "BOGUS")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	view, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, view.Discount)
	assert.Equal(t, "SHADOW10", view.Discount.Code)
}

func TestServiceApplyDiscountMissRevokesWhenConfigured(t *testing.T) {
	t.Parallel()

	store := newMemoryCartStore()
	codes := map[string]decimal.Decimal{"SHADOW10": decimal.NewFromInt(10)}
	svc := newTestService(t, store, nil, codes, true)

	_, err := svc.ApplyDiscount(context.Background(), "tok", "SHADOW10")
	require.NoError(t, err)

	_, err = svc.ApplyDiscount(context.Background(), "tok", "BOGUS")
	require.Error(t, err)

	view, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Nil(t, view.Discount)
}

func TestServiceApplyDiscountMissWithNoPriorDiscount(t *testing.T) {
	t.Parallel()

	store := newMemoryCartStore()
	svc := newTestService(t, store, nil, nil, true)

	_, err := svc.ApplyDiscount(context.Background(), "tok", "BOGUS")
	require.Error(t, err)

	view, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Nil(t, view.Discount)
	assert.True(t, view.Totals.Subtotal.IsZero())
}

func TestServiceClearDeletesSnapshot(t *testing.T) {
	t.Parallel()

	product := testProduct("9.99")
	store := newMemoryCartStore()
	svc := newTestService(t, store, map[uuid.UUID]*models.Product{product.ID: product}, nil, false)

	_, err := svc.AddItem(context.Background(), "tok", product.ID, 2)
	require.NoError(t, err)

	view, err := svc.Clear(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Contains(t, store.deleted, "tok")
}

func TestServiceSetAndAdjustQuantity(t *testing.T) {
	t.Parallel()

	product := testProduct("5.00")
	store := newMemoryCartStore()
	svc := newTestService(t, store, map[uuid.UUID]*models.Product{product.ID: product}, nil, false)

	_, err := svc.AddItem(context.Background(), "tok", product.ID, 1)
	require.NoError(t, err)

	view, err := svc.AdjustQuantity(context.Background(), "tok", product.ID, -5)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	view, err = svc.SetQuantity(context.Background(), "tok", product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Lines[0].Quantity)

	view, err = svc.SetQuantity(context.Background(), "tok", product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}
