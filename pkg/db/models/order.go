package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// Order is a placed order. Details is an immutable snapshot of the cart lines
// at submission time; bulk clears archive rather than destroy rows.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID            `gorm:"column:store_id;type:uuid;not null;index"`
	CustomerID      uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;not null;default:'cash'"`
	DeliveryAddress *string              `gorm:"column:delivery_address"`
	DeliveryZone    *string              `gorm:"column:delivery_zone"`
	PaymentProofURL *string              `gorm:"column:payment_proof_url"`
	Details         types.OrderLines     `gorm:"column:details;type:jsonb;serializer:json"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	IsArchived      bool                 `gorm:"column:is_archived;not null;default:false"`
	Customer        *Customer            `gorm:"foreignKey:CustomerID"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
