package discounts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates discount code persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a discount repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByCode fetches a code by its canonical (uppercase) form.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var record models.DiscountCode
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&record).
		Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new discount code.
func (r *Repository) Create(ctx context.Context, record *models.DiscountCode) (*models.DiscountCode, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every discount code, newest first.
func (r *Repository) List(ctx context.Context) ([]models.DiscountCode, error) {
	var records []models.DiscountCode
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).
		Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a discount code by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DiscountCode{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
