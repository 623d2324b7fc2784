package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists orders and their item snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its item snapshot.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID loads an order with its items in snapshot order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListPage is one page of orders.
type ListPage struct {
	Orders     []models.Order
	NextCursor string
	Total      int64
}

// ListByUser paginates a customer's orders newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListPage, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("partition = ? AND user_id = ?", enums.OrderPartitionUser, userID)
	return r.page(ctx, base, params)
}

// ListFilter narrows the back-office order listing.
type ListFilter struct {
	Partition enums.OrderPartition
	Status    enums.OrderStatus
}

// List paginates all orders for the back office, optionally filtered by
// partition and status.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter ListFilter) (ListPage, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Partition != "" {
		base = base.Where("partition = ?", filter.Partition)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	return r.page(ctx, base, params)
}

func (r *Repository) page(ctx context.Context, base *gorm.DB, params pagination.Params) (ListPage, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return ListPage{}, err
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ListPage{}, err
	}

	dataQuery := base.Session(&gorm.Session{})
	if decodedCursor != nil {
		dataQuery = dataQuery.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Order
	if err := dataQuery.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).
		Error; err != nil {
		return ListPage{}, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return ListPage{
		Orders:     records,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// UpdateStatus moves the order to a new fulfillment state.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
