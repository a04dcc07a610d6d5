package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	orders        map[uuid.UUID]*models.Order
	statusUpdates []uuid.UUID
	archived      int64
}

func newStubOrdersRepo(orders ...*models.Order) *stubOrdersRepo {
	repo := &stubOrdersRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	list := &OrderList{}
	for _, order := range s.orders {
		if order.StoreID == storeID && (filters.IncludeArchived || !order.IsArchived) {
			list.Orders = append(list.Orders, *order)
		}
	}
	return list, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	s.statusUpdates = append(s.statusUpdates, orderID)
	return nil
}

func (s *stubOrdersRepo) ArchiveAllByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	for _, order := range s.orders {
		if order.StoreID == storeID && !order.IsArchived {
			order.IsArchived = true
			count++
		}
	}
	s.archived = count
	return count, nil
}

func (s *stubOrdersRepo) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingFeed struct {
	events []Event
}

func (f *recordingFeed) Publish(ctx context.Context, event Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *recordingFeed) Subscribe(ctx context.Context, storeID uuid.UUID) (Subscription, error) {
	return nil, nil
}

func TestMarkPaidTransitionsAndAnnounces(t *testing.T) {
	storeID := uuid.New()
	order := &models.Order{
		ID:          uuid.New(),
		StoreID:     storeID,
		TotalAmount: decimal.RequireFromString("13200"),
		Status:      enums.OrderStatusPending,
	}
	repo := newStubOrdersRepo(order)
	feed := &recordingFeed{}

	svc, err := NewService(repo, stubTxRunner{}, feed)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.MarkPaid(context.Background(), storeID, order.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if dto.Status != enums.OrderStatusPaid.String() {
		t.Fatalf("expected paid status, got %s", dto.Status)
	}
	if len(repo.statusUpdates) != 1 {
		t.Fatalf("expected one status write, got %d", len(repo.statusUpdates))
	}
	if len(feed.events) != 1 || feed.events[0].Kind != EventKindStatusChanged {
		t.Fatalf("expected one status-changed feed event, got %+v", feed.events)
	}
}

func TestMarkPaidRejectsAlreadyPaid(t *testing.T) {
	storeID := uuid.New()
	order := &models.Order{
		ID:      uuid.New(),
		StoreID: storeID,
		Status:  enums.OrderStatusPaid,
	}
	svc, err := NewService(newStubOrdersRepo(order), stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.MarkPaid(context.Background(), storeID, order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
}

func TestMarkPaidHidesOtherStoresOrders(t *testing.T) {
	order := &models.Order{
		ID:      uuid.New(),
		StoreID: uuid.New(),
		Status:  enums.OrderStatusPending,
	}
	svc, err := NewService(newStubOrdersRepo(order), stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.MarkPaid(context.Background(), uuid.New(), order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for foreign order, got %v", err)
	}
}

func TestArchiveAllSoftClears(t *testing.T) {
	storeID := uuid.New()
	repo := newStubOrdersRepo(
		&models.Order{ID: uuid.New(), StoreID: storeID, Status: enums.OrderStatusPending},
		&models.Order{ID: uuid.New(), StoreID: storeID, Status: enums.OrderStatusPaid},
		&models.Order{ID: uuid.New(), StoreID: uuid.New(), Status: enums.OrderStatusPending},
	)
	svc, err := NewService(repo, stubTxRunner{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	archived, err := svc.ArchiveAll(context.Background(), storeID)
	if err != nil {
		t.Fatalf("archive all: %v", err)
	}
	if archived != 2 {
		t.Fatalf("expected 2 archived orders, got %d", archived)
	}

	list, err := svc.ListOrders(context.Background(), storeID, pagination.Params{}, Filters{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(list.Orders) != 0 {
		t.Fatalf("archived orders must not appear in the default list, got %d", len(list.Orders))
	}
}
