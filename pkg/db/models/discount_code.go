package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountCode is an admin-managed percentage-off code. Codes are stored
// uppercase; lookups canonicalize before matching.
type DiscountCode struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string          `gorm:"column:code;not null;uniqueIndex"`
	Percent   decimal.Decimal `gorm:"column:percent;type:numeric(5,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
