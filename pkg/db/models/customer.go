package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a store's end buyer, unique per (store_id, phone). Repeated
// orders refresh the name and last_order_at instead of creating duplicates.
type Customer struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID  `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_customers_store_phone"`
	Phone       string     `gorm:"column:phone;not null;uniqueIndex:idx_customers_store_phone"`
	Name        string     `gorm:"column:name;not null"`
	LastOrderAt *time.Time `gorm:"column:last_order_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
