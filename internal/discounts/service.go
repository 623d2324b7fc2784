package discounts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the back-office discount code operations.
type Service interface {
	CreateCode(ctx context.Context, input CreateCodeInput) (*models.DiscountCode, error)
	ListCodes(ctx context.Context) ([]models.DiscountCode, error)
	DeleteCode(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the admin discount service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount repo is required")
	}
	return &service{repo: repo}, nil
}

// CreateCodeInput captures the payload for minting a new code.
type CreateCodeInput struct {
	Code    string
	Percent decimal.Decimal
}

// CreateCode stores a new percentage-off code. Codes are canonicalized to
// uppercase before persisting so lookups stay case-insensitive.
func (s *service) CreateCode(ctx context.Context, input CreateCodeInput) (*models.DiscountCode, error) {
	canonical := strings.ToUpper(strings.TrimSpace(input.Code))
	if canonical == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !input.Percent.IsPositive() || input.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent must be between 0 and 100")
	}

	record, err := s.repo.Create(ctx, &models.DiscountCode{
		Code:    canonical,
		Percent: input.Percent,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount code")
	}
	return record, nil
}

// ListCodes returns all codes for the back office.
func (s *service) ListCodes(ctx context.Context) ([]models.DiscountCode, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount codes")
	}
	return records, nil
}

// DeleteCode removes a code; carts holding the code keep their applied
// snapshot until checkout re-resolves it.
func (s *service) DeleteCode(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount code")
	}
	return nil
}
