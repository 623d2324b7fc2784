package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type codeFinder interface {
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

// ResolvedCode is the outcome of a successful code lookup.
type ResolvedCode struct {
	Code    string
	Percent decimal.Decimal
}

// Resolver canonicalizes and looks up discount codes.
type Resolver struct {
	repo codeFinder
}

// NewResolver builds a resolver over the given repository.
func NewResolver(repo codeFinder) (*Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &Resolver{repo: repo}, nil
}

// Resolve uppercases the input and returns the matching code, or a not-found
// error when no code matches. Lookups are whole-string and case-insensitive.
func (r *Resolver) Resolve(ctx context.Context, code string) (*ResolvedCode, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))
	if canonical == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is required")
	}

	record, err := r.repo.FindByCode(ctx, canonical)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid discount code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup discount code")
	}

	return &ResolvedCode{Code: record.Code, Percent: record.Percent}, nil
}
