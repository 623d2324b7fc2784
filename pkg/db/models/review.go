package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a shopper's rating of a product. Deletable only by admins.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	AuthorName string    `gorm:"column:author_name;not null"`
	Body       string    `gorm:"column:body;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
