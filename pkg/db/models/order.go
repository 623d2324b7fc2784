package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is the immutable record written at checkout. The item and totals
// snapshot never changes after placement; only Status does.
type Order struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Partition enums.OrderPartition `gorm:"column:partition;not null;index"`
	UserID    *uuid.UUID           `gorm:"column:user_id;type:uuid;index"`

	Subtotal       decimal.Decimal  `gorm:"column:subtotal;type:numeric(14,6);not null"`
	DiscountAmount decimal.Decimal  `gorm:"column:discount_amount;type:numeric(14,6);not null"`
	Tax            decimal.Decimal  `gorm:"column:tax;type:numeric(14,6);not null"`
	Total          decimal.Decimal  `gorm:"column:total;type:numeric(14,6);not null"`
	DiscountCode   *string          `gorm:"column:discount_code"`
	DiscountPct    *decimal.Decimal `gorm:"column:discount_pct;type:numeric(5,2)"`

	ShipName    string `gorm:"column:ship_name;not null"`
	ShipEmail   string `gorm:"column:ship_email;not null"`
	ShipAddress string `gorm:"column:ship_address;not null"`
	ShipCity    string `gorm:"column:ship_city;not null"`
	ShipZip     string `gorm:"column:ship_zip;not null"`

	// Payment data is redacted before it ever reaches this struct; only the
	// last four digits and the expiry survive.
	CardLast4  string `gorm:"column:card_last4;not null"`
	CardExpiry string `gorm:"column:card_expiry;not null"`

	Status    enums.OrderStatus `gorm:"column:status;not null;default:'processing'"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
