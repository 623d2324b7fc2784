package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes storefront reads and back-office product management.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProductsPage(ctx context.Context, params pagination.Params, query string) (ListPage, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, params pagination.Params, query string) (ListPage, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type snapshotCache interface {
	Snapshot() []models.Product
	Invalidate(ctx context.Context) error
}

// Params bundles the service dependencies.
type Params struct {
	Repo   productStore
	Cache  snapshotCache
	Logger *logger.Logger
}

type service struct {
	repo  productStore
	cache snapshotCache
	logg  *logger.Logger
}

// NewService builds the catalog service.
func NewService(params Params) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog cache is required")
	}
	return &service{
		repo:  params.Repo,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

// ProductInput captures the payload for creating or updating a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if in.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

// ListProducts serves the storefront grid from the in-memory snapshot,
// falling back to the repository when the snapshot has not warmed yet.
func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	if snapshot := s.cache.Snapshot(); len(snapshot) > 0 {
		return snapshot, nil
	}
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// GetProduct loads a single product for the detail page.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListProductsPage paginates products for the back office.
func (s *service) ListProductsPage(ctx context.Context, params pagination.Params, query string) (ListPage, error) {
	page, err := s.repo.List(ctx, params, query)
	if err != nil {
		return ListPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

// CreateProduct persists a new product and broadcasts a catalog change.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.notify(ctx)
	return created, nil
}

// UpdateProduct replaces the product fields and broadcasts a catalog change.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.notify(ctx)
	return updated, nil
}

// DeleteProduct removes a product and broadcasts a catalog change. Existing
// cart snapshots keep their copied line data; checkout revalidates against
// the live catalog.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	s.notify(ctx)
	return nil
}

func (s *service) notify(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil && s.logg != nil {
		s.logg.Error(ctx, "catalog change broadcast failed", err)
	}
}
