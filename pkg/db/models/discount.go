package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount is a per-product, per-weekday percentage markdown. day_of_week is
// 0=Sunday..6=Saturday; at most one row exists per (product_id, day_of_week).
type Discount struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_discounts_product_day"`
	DayOfWeek int             `gorm:"column:day_of_week;not null;uniqueIndex:idx_discounts_product_day"`
	Percent   decimal.Decimal `gorm:"column:percent;type:numeric(5,2);not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
