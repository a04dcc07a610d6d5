package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the admin order operations.
type Service interface {
	GetOrder(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters Filters) (*OrderListDTO, error)
	MarkPaid(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	ArchiveAll(ctx context.Context, storeID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	tx   txRunner
	feed Feed
}

// NewService builds the order service. The feed may be nil when no realtime
// transport is configured; status changes then simply go unannounced.
func NewService(repo Repository, tx txRunner, feed Feed) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, feed: feed}, nil
}

// GetOrder loads one order owned by the store.
func (s *service) GetOrder(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwnedOrder(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	dto := NewOrderDTO(order)
	return &dto, nil
}

// ListOrders returns one page of the store's orders.
func (s *service) ListOrders(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters Filters) (*OrderListDTO, error) {
	list, err := s.repo.ListByStore(ctx, storeID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}

	dto := &OrderListDTO{
		Orders:     make([]OrderDTO, 0, len(list.Orders)),
		NextCursor: list.NextCursor,
	}
	for i := range list.Orders {
		dto.Orders = append(dto.Orders, NewOrderDTO(&list.Orders[i]))
	}
	return dto, nil
}

// MarkPaid transitions a pending order to paid and announces the change.
func (s *service) MarkPaid(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwnedOrder(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateStatus(ctx, orderID, enums.OrderStatusPaid)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	order.Status = enums.OrderStatusPaid

	s.announce(ctx, Event{
		OrderID:   order.ID,
		StoreID:   storeID,
		Kind:      EventKindStatusChanged,
		Status:    order.Status.String(),
		CreatedAt: time.Now().UTC(),
	})

	dto := NewOrderDTO(order)
	return &dto, nil
}

// ArchiveAll soft-clears every visible order for the store.
func (s *service) ArchiveAll(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var archived int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := s.repo.WithTx(tx).ArchiveAllByStore(ctx, storeID)
		archived = count
		return err
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: archive orders")
	}
	return archived, nil
}

// announce publishes a feed event best effort. Feed delivery never fails an
// order mutation.
func (s *service) announce(ctx context.Context, event Event) {
	if s.feed == nil {
		return
	}
	_ = s.feed.Publish(ctx, event)
}

func (s *service) loadOwnedOrder(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
