package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the signed-in wishlist operations.
type Service interface {
	SaveProduct(ctx context.Context, userID, productID uuid.UUID) error
	UnsaveProduct(ctx context.Context, userID, productID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

type wishlistStore interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     wishlistStore
	products productLoader
}

// NewService builds the wishlist service.
func NewService(repo wishlistStore, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

// SaveProduct puts the product on the caller's wishlist. Saving twice is a
// no-op.
func (s *service) SaveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	return nil
}

// UnsaveProduct removes the product from the caller's wishlist. Removing an
// absent product is a no-op.
func (s *service) UnsaveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

// ListSaved returns the caller's saved products, newest first.
func (s *service) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	products, err := s.repo.ListProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return products, nil
}
