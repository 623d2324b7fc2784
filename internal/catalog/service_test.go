package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProductStore struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductStore() *stubProductStore {
	return &stubProductStore{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductStore) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	for _, product := range s.products {
		products = append(products, *product)
	}
	return products, nil
}

func (s *stubProductStore) List(ctx context.Context, params pagination.Params, query string) (ListPage, error) {
	page := ListPage{Total: int64(len(s.products))}
	for _, product := range s.products {
		page.Products = append(page.Products, *product)
	}
	return page, nil
}

func (s *stubProductStore) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductStore) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

type stubCache struct {
	snapshot    []models.Product
	invalidated int
}

func (c *stubCache) Snapshot() []models.Product { return c.snapshot }

func (c *stubCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	return nil
}

func newCatalogService(t *testing.T, repo *stubProductStore, cache *stubCache) Service {
	t.Helper()

	svc, err := NewService(Params{Repo: repo, Cache: cache})
	require.NoError(t, err)
	return svc
}

func TestListProductsReadsSnapshot(t *testing.T) {
	t.Parallel()

	cache := &stubCache{snapshot: []models.Product{
		{Name: "Moonlit Print"},
		{Name: "Velvet Mask"},
	}}
	svc := newCatalogService(t, newStubProductStore(), cache)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestListProductsFallsBackToRepoWhenSnapshotIsCold(t *testing.T) {
	t.Parallel()

	repo := newStubProductStore()
	_, err := repo.Create(context.Background(), &models.Product{Name: "Phantom Poster"})
	require.NoError(t, err)
	svc := newCatalogService(t, repo, &stubCache{})

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Phantom Poster", products[0].Name)
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, newStubProductStore(), &stubCache{})

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateProductValidatesAndNotifies(t *testing.T) {
	t.Parallel()

	repo := newStubProductStore()
	cache := &stubCache{}
	svc := newCatalogService(t, repo, cache)

	_, err := svc.CreateProduct(context.Background(), ProductInput{Name: "   ", Price: decimal.NewFromInt(10)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateProduct(context.Background(), ProductInput{Name: "Bad", Price: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Equal(t, 0, cache.invalidated)

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "  Moonlit Print  ",
		Price: decimal.RequireFromString("25.00"),
		Stock: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Moonlit Print", created.Name)
	assert.Equal(t, 1, cache.invalidated)
}

func TestUpdateProductNotifies(t *testing.T) {
	t.Parallel()

	repo := newStubProductStore()
	cache := &stubCache{}
	svc := newCatalogService(t, repo, cache)

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "Original",
		Price: decimal.NewFromInt(10),
		Stock: 1,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), created.ID, ProductInput{
		Name:  "Renamed",
		Price: decimal.NewFromInt(15),
		Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 3, updated.Stock)
	assert.Equal(t, 2, cache.invalidated)
}

func TestDeleteProductNotFound(t *testing.T) {
	t.Parallel()

	cache := &stubCache{}
	svc := newCatalogService(t, newStubProductStore(), cache)

	err := svc.DeleteProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Equal(t, 0, cache.invalidated)
}

func TestDeleteProductNotifies(t *testing.T) {
	t.Parallel()

	repo := newStubProductStore()
	cache := &stubCache{}
	svc := newCatalogService(t, repo, cache)

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "Short Lived",
		Price: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))
	assert.Equal(t, 2, cache.invalidated)
}
