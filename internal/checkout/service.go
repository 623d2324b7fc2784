package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/internal/cart"
	"github.com/shadowgallery/shadowgallery-backend/internal/catalog"
	"github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	"github.com/shadowgallery/shadowgallery-backend/internal/orders"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service assembles immutable orders from cart snapshots.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
}

type cartStore interface {
	Load(ctx context.Context, cartToken string) (*cart.Cart, error)
	Delete(ctx context.Context, cartToken string) error
}

type discountResolver interface {
	Resolve(ctx context.Context, code string) (*discounts.ResolvedCode, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Params bundles the checkout dependencies.
type Params struct {
	Tx             txRunner
	Carts          cartStore
	Catalog        *catalog.Repository
	Orders         *orders.Repository
	Resolver       discountResolver
	TaxRatePercent string
	Logger         *logger.Logger
}

type service struct {
	tx       txRunner
	carts    cartStore
	catalog  *catalog.Repository
	orders   *orders.Repository
	resolver discountResolver
	taxRate  decimal.Decimal
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(params Params) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount resolver is required")
	}

	taxRate, err := decimal.NewFromString(strings.TrimSpace(params.TaxRatePercent))
	if err != nil || taxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tax rate")
	}

	return &service{
		tx:       params.Tx,
		carts:    params.Carts,
		catalog:  params.Catalog,
		orders:   params.Orders,
		resolver: params.Resolver,
		taxRate:  taxRate,
		logg:     params.Logger,
	}, nil
}

// ShippingDetails is the destination captured on the order.
type ShippingDetails struct {
	Name    string
	Email   string
	Address string
	City    string
	Zip     string
}

// PaymentDetails is the raw card input. Everything except the last four
// digits and the expiry is discarded before any write.
type PaymentDetails struct {
	CardNumber string
	Expiry     string
	CVC        string
}

// PlaceOrderInput is the full checkout payload. UserID is nil for guest
// checkouts.
type PlaceOrderInput struct {
	CartToken string
	UserID    *uuid.UUID
	Shipping  ShippingDetails
	Payment   PaymentDetails
}

// PlaceOrder turns the cart snapshot into an order: it revalidates the
// discount, recomputes totals, decrements stock, and writes the order in one
// transaction. The cart is only cleared after the order commits; any failure
// leaves the cart untouched.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}
	last4, err := redactCardNumber(input.Payment.CardNumber)
	if err != nil {
		return nil, err
	}
	expiry := strings.TrimSpace(input.Payment.Expiry)
	if expiry == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card expiry is required")
	}

	snapshot, err := s.carts.Load(ctx, input.CartToken)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	discount, err := s.revalidateDiscount(ctx, snapshot.Discount)
	if err != nil {
		return nil, err
	}
	snapshot.Discount = discount

	totals := cart.ComputeTotals(snapshot, s.taxRate)
	order := s.assembleOrder(input, snapshot, totals, last4, expiry)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stock := s.catalog.WithTx(tx)
		for _, line := range snapshot.Lines {
			if err := stock.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return s.stockError(ctx, stock, line, err)
			}
		}
		_, err := s.orders.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, input.CartToken); err != nil && s.logg != nil {
		s.logg.Error(ctx, "clear cart after checkout failed", err)
	}

	return order, nil
}

// revalidateDiscount re-resolves the applied code against the live table. A
// code that has since been deleted is silently dropped rather than blocking
// the purchase.
func (s *service) revalidateDiscount(ctx context.Context, applied *cart.AppliedDiscount) (*cart.AppliedDiscount, error) {
	if applied == nil {
		return nil, nil
	}

	resolved, err := s.resolver.Resolve(ctx, applied.Code)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revalidate discount")
	}
	return &cart.AppliedDiscount{Code: resolved.Code, Percent: resolved.Percent}, nil
}

func (s *service) assembleOrder(input PlaceOrderInput, snapshot *cart.Cart, totals cart.Totals, last4, expiry string) *models.Order {
	order := &models.Order{
		Partition:      enums.OrderPartitionGuest,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Tax:            totals.Tax,
		Total:          totals.Total,
		ShipName:       strings.TrimSpace(input.Shipping.Name),
		ShipEmail:      strings.TrimSpace(input.Shipping.Email),
		ShipAddress:    strings.TrimSpace(input.Shipping.Address),
		ShipCity:       strings.TrimSpace(input.Shipping.City),
		ShipZip:        strings.TrimSpace(input.Shipping.Zip),
		CardLast4:      last4,
		CardExpiry:     expiry,
		Status:         enums.OrderStatusProcessing,
	}
	if input.UserID != nil && *input.UserID != uuid.Nil {
		order.Partition = enums.OrderPartitionUser
		order.UserID = input.UserID
	}
	if snapshot.Discount != nil {
		code := snapshot.Discount.Code
		pct := snapshot.Discount.Percent
		order.DiscountCode = &code
		order.DiscountPct = &pct
	}
	for _, line := range snapshot.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			ImageURL:  line.ImageURL,
		})
	}
	return order
}

// stockError distinguishes a vanished product from insufficient stock by
// reloading the row inside the same transaction.
func (s *service) stockError(ctx context.Context, stock *catalog.Repository, line cart.Line, err error) error {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
	if _, loadErr := stock.GetByID(ctx, line.ProductID); errors.Is(loadErr, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product "+line.Name+" is no longer available")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for "+line.Name)
}

func validateShipping(shipping ShippingDetails) error {
	switch {
	case strings.TrimSpace(shipping.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping name is required")
	case strings.TrimSpace(shipping.Email) == "" || !strings.Contains(shipping.Email, "@"):
		return pkgerrors.New(pkgerrors.CodeValidation, "valid shipping email is required")
	case strings.TrimSpace(shipping.Address) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	case strings.TrimSpace(shipping.City) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping city is required")
	case strings.TrimSpace(shipping.Zip) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping zip is required")
	}
	return nil
}

// redactCardNumber validates the raw card number and returns only its last
// four digits. The full number never leaves this function.
func redactCardNumber(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if r == ' ' || r == '-' {
			return -1
		}
		return 'x'
	}, raw)
	if strings.ContainsRune(digits, 'x') || len(digits) < 12 || len(digits) > 19 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid card number")
	}
	return digits[len(digits)-4:], nil
}
