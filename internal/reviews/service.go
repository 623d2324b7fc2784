package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes product review reads, signed-in writes, and the admin
// takedown.
type Service interface {
	CreateReview(ctx context.Context, input CreateReviewInput) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

type reviewStore interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     reviewStore
	products productLoader
}

// NewService builds the reviews service.
func NewService(repo reviewStore, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviews repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

// CreateReviewInput captures a new review. AuthorName is snapshotted from the
// caller's profile at write time.
type CreateReviewInput struct {
	ProductID  uuid.UUID
	UserID     uuid.UUID
	AuthorName string
	Body       string
	Rating     int
}

// CreateReview validates and stores a review for an existing product.
func (s *service) CreateReview(ctx context.Context, input CreateReviewInput) (*models.Review, error) {
	if input.ProductID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id and user id are required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review body is required")
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review, err := s.repo.Create(ctx, &models.Review{
		ProductID:  input.ProductID,
		UserID:     input.UserID,
		AuthorName: strings.TrimSpace(input.AuthorName),
		Body:       body,
		Rating:     input.Rating,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

// ListByProduct returns a product's reviews, newest first.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	records, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return records, nil
}

// ListAll returns every review for the back-office moderation queue,
// newest first.
func (s *service) ListAll(ctx context.Context) ([]models.Review, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return records, nil
}

// DeleteReview removes a review. Back office only; authors cannot retract
// their own reviews.
func (s *service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}
