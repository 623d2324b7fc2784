package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type discountResolver interface {
	Resolve(ctx context.Context, code string) (*discounts.ResolvedCode, error)
}

type cartStore interface {
	Load(ctx context.Context, token string) (*Cart, error)
	Save(ctx context.Context, token string, cart *Cart) error
	Delete(ctx context.Context, token string) error
}

// View is the cart representation returned to clients: the lines plus the
// derived totals for the current state.
type View struct {
	Lines         []Line           `json:"lines"`
	Discount      *AppliedDiscount `json:"discount,omitempty"`
	TotalQuantity int              `json:"total_quantity"`
	Totals        Totals           `json:"totals"`
}

// Service exposes the session cart operations.
type Service interface {
	Get(ctx context.Context, token string) (*View, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*View, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*View, error)
	SetQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*View, error)
	AdjustQuantity(ctx context.Context, token string, productID uuid.UUID, delta int) (*View, error)
	Clear(ctx context.Context, token string) (*View, error)
	ApplyDiscount(ctx context.Context, token, code string) (*View, error)
	RemoveDiscount(ctx context.Context, token string) (*View, error)
}

type service struct {
	store        cartStore
	products     productLoader
	resolver     discountResolver
	taxRate      decimal.Decimal
	revokeOnMiss bool
}

// Params collects the cart service dependencies.
type Params struct {
	Store    cartStore
	Products productLoader
	Resolver discountResolver

	// TaxRatePercent is the canonical tax rate, e.g. "8" for 8%.
	TaxRatePercent string

	// RevokeDiscountOnFailedApply clears an already-applied discount when a
	// later code lookup misses. Kept for backwards compatibility; off by
	// default so a typo cannot silently drop a valid discount.
	RevokeDiscountOnFailedApply bool
}

// NewService builds the cart service.
func NewService(p Params) (Service, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if p.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if p.Resolver == nil {
		return nil, fmt.Errorf("discount resolver required")
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(p.TaxRatePercent))
	if err != nil {
		return nil, fmt.Errorf("invalid tax rate %q: %w", p.TaxRatePercent, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("tax rate cannot be negative")
	}
	return &service{
		store:        p.Store,
		products:     p.Products,
		resolver:     p.Resolver,
		taxRate:      rate,
		revokeOnMiss: p.RevokeDiscountOnFailedApply,
	}, nil
}

func (s *service) view(cart *Cart) *View {
	lines := cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &View{
		Lines:         lines,
		Discount:      cart.Discount,
		TotalQuantity: cart.TotalQuantity(),
		Totals:        ComputeTotals(cart, s.taxRate),
	}
}

func (s *service) Get(ctx context.Context, token string) (*View, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*View, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty <= 0 {
		qty = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}

	cart.Add(Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  qty,
	})

	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*View, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) SetQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*View, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.SetQuantity(productID, qty)
	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) AdjustQuantity(ctx context.Context, token string, productID uuid.UUID, delta int) (*View, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.AdjustQuantity(productID, delta)
	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) Clear(ctx context.Context, token string) (*View, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.store.Delete(ctx, token); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) ApplyDiscount(ctx context.Context, token, code string) (*View, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))
	if canonical == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is required")
	}

	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, canonical)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			if s.revokeOnMiss && cart.Discount != nil {
				cart.Discount = nil
				if saveErr := s.store.Save(ctx, token, cart); saveErr != nil {
					return nil, saveErr
				}
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid discount code")
		}
		return nil, err
	}

	cart.Discount = &AppliedDiscount{Code: resolved.Code, Percent: resolved.Percent}
	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) RemoveDiscount(ctx context.Context, token string) (*View, error) {
	cart, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.Discount = nil
	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}
