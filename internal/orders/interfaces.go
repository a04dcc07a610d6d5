package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	"github.com/emilianovazquez/pedilo-backend/pkg/pagination"
)

// Repository defines persistence operations for placed orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	ArchiveAllByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Filters narrows the admin order list.
type Filters struct {
	Status          *enums.OrderStatus
	IncludeArchived bool
}

// OrderList is one page of a store's orders.
type OrderList struct {
	Orders     []models.Order
	NextCursor *string
}
