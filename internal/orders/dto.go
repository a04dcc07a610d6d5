package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// OrderDTO is the admin-facing order payload.
type OrderDTO struct {
	ID              uuid.UUID        `json:"id"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	DeliveryMethod  string           `json:"delivery_method"`
	PaymentMethod   string           `json:"payment_method"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	DeliveryZone    *string          `json:"delivery_zone,omitempty"`
	PaymentProofURL *string          `json:"payment_proof_url,omitempty"`
	Details         types.OrderLines `json:"details"`
	Status          string           `json:"status"`
	IsArchived      bool             `json:"is_archived"`
	CreatedAt       time.Time        `json:"created_at"`
}

// OrderListDTO is one page of orders plus the cursor to the next page.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds the payload from the persisted model.
func NewOrderDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              order.ID,
		TotalAmount:     order.TotalAmount,
		DeliveryMethod:  order.DeliveryMethod.String(),
		PaymentMethod:   order.PaymentMethod.String(),
		DeliveryAddress: order.DeliveryAddress,
		DeliveryZone:    order.DeliveryZone,
		PaymentProofURL: order.PaymentProofURL,
		Details:         order.Details,
		Status:          order.Status.String(),
		IsArchived:      order.IsArchived,
		CreatedAt:       order.CreatedAt,
	}
	if order.Customer != nil {
		dto.CustomerName = order.Customer.Name
		dto.CustomerPhone = order.Customer.Phone
	}
	return dto
}
