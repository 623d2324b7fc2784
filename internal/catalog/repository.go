package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together product persistence for the storefront catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
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

// GetByID loads a single product.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListAll returns the entire catalog ordered by name, the storefront's
// display order. The result feeds the replace-on-notify cache, so it is
// always the full set.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&products).
		Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListPage returns a cursor-paginated slice of the catalog for the back office.
type ListPage struct {
	Products   []models.Product
	NextCursor string
	Total      int64
}

// List paginates products newest first, optionally filtered by a name search.
func (r *Repository) List(ctx context.Context, params pagination.Params, query string) (ListPage, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return ListPage{}, err
	}

	base := r.db.WithContext(ctx).Model(&models.Product{})
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		base = base.Where("lower(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ListPage{}, err
	}

	dataQuery := base.Session(&gorm.Session{})
	if decodedCursor != nil {
		dataQuery = dataQuery.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var products []models.Product
	if err := dataQuery.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&products).
		Error; err != nil {
		return ListPage{}, err
	}

	nextCursor := ""
	if len(products) > normalizedLimit {
		products = products[:normalizedLimit]
		last := products[len(products)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return ListPage{
		Products:   products,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists all fields of the product.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock atomically reduces stock, guarding against oversell. It
// reports gorm.ErrRecordNotFound when the product is missing or stock is
// insufficient; callers distinguish the two by reloading the row.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
