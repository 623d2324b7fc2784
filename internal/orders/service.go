package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes order history reads and back-office fulfillment updates.
// Order creation lives in the checkout package.
type Service interface {
	GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListPage, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filter ListFilter) (ListPage, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type orderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListPage, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) (ListPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type service struct {
	repo orderStore
}

// NewService builds the orders service.
func NewService(repo orderStore) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{repo: repo}, nil
}

// GetMyOrder loads an order for its owner. Orders outside the caller's
// partition are reported as missing rather than forbidden.
func (s *service) GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Partition != enums.OrderPartitionUser || order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// ListMyOrders paginates the caller's order history.
func (s *service) ListMyOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListPage, error) {
	if userID == uuid.Nil {
		return ListPage{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	page, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return ListPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// GetOrder loads any order for the back office.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.loadOrder(ctx, orderID)
}

// ListOrders paginates all orders for the back office.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, filter ListFilter) (ListPage, error) {
	if filter.Partition != "" && !filter.Partition.IsValid() {
		return ListPage{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid partition filter")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return ListPage{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	page, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return ListPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// UpdateOrderStatus moves an order through its fulfillment lifecycle and
// returns the refreshed record.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.loadOrder(ctx, orderID)
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
