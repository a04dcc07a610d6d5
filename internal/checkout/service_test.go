package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/cart"
	"github.com/emilianovazquez/pedilo-backend/internal/customers"
	"github.com/emilianovazquez/pedilo-backend/internal/orders"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/pagination"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubStoreFinder struct {
	store *models.Store
}

func (s *stubStoreFinder) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	if s.store != nil && s.store.Slug == slug {
		return s.store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCustomersRepo struct {
	upserts []models.Customer
}

func (s *stubCustomersRepo) WithTx(tx *gorm.DB) customers.CustomerRepository {
	return s
}

func (s *stubCustomersRepo) UpsertByPhone(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	customer.ID = uuid.New()
	s.upserts = append(s.upserts, *customer)
	return customer, nil
}

func (s *stubCustomersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomersRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Customer, error) {
	return nil, nil
}

type stubOrdersRepo struct {
	created []*models.Order
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func (s *stubOrdersRepo) ArchiveAllByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubOrdersRepo) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type recordingFeed struct {
	events []orders.Event
}

func (f *recordingFeed) Publish(ctx context.Context, event orders.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *recordingFeed) Subscribe(ctx context.Context, storeID uuid.UUID) (orders.Subscription, error) {
	return nil, nil
}

type checkoutFixture struct {
	svc       Service
	store     *models.Store
	carts     *cart.Store
	customers *stubCustomersRepo
	orders    *stubOrdersRepo
	feed      *recordingFeed
}

func newFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	waPhone := "5491122334455"
	store := &models.Store{
		ID:            uuid.New(),
		Slug:          "la-esquina",
		Name:          "La Esquina",
		WhatsAppPhone: &waPhone,
		DeliveryZones: []models.DeliveryZone{
			{ID: uuid.New(), Name: "Centro", Surcharge: dec("500")},
		},
	}

	fixture := &checkoutFixture{
		store:     store,
		carts:     cart.NewStore(),
		customers: &stubCustomersRepo{},
		orders:    &stubOrdersRepo{},
		feed:      &recordingFeed{},
	}

	svc, err := NewService(
		stubTxRunner{},
		&stubStoreFinder{store: store},
		fixture.customers,
		fixture.orders,
		fixture.carts,
		fixture.feed,
		nil,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixture.svc = svc
	return fixture
}

func (f *checkoutFixture) fillCart() {
	pizza := cart.Line{ProductID: uuid.New(), StoreID: f.store.ID, ProductName: "Pizza Muzzarella", UnitPrice: dec("10200")}
	empanada := cart.Line{ProductID: uuid.New(), StoreID: f.store.ID, ProductName: "Empanada de Carne", UnitPrice: dec("1500")}
	f.carts.Add("sess", pizza)
	f.carts.Add("sess", empanada)
	f.carts.Add("sess", empanada)
}

func TestSubmitPickupOrderEndToEnd(t *testing.T) {
	fixture := newFixture(t)
	fixture.fillCart()

	result, err := fixture.svc.Submit(context.Background(), SubmitInput{
		SessionID:      "sess",
		StoreSlug:      "la-esquina",
		CustomerName:   "Ana",
		CustomerPhone:  "5491155556666",
		DeliveryMethod: enums.DeliveryMethodPickup,
		PaymentMethod:  enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !result.TotalAmount.Equal(dec("13200")) {
		t.Fatalf("expected total 13200, got %s", result.TotalAmount)
	}

	if len(fixture.orders.created) != 1 {
		t.Fatalf("expected one order insert, got %d", len(fixture.orders.created))
	}
	order := fixture.orders.created[0]
	if order.DeliveryAddress != nil {
		t.Fatalf("pickup order must have nil delivery address, got %v", *order.DeliveryAddress)
	}
	if len(order.Details) != 2 {
		t.Fatalf("expected 2 snapshot lines, got %d", len(order.Details))
	}

	for _, want := range []string{"Pizza Muzzarella", "Empanada de Carne", "$13.200"} {
		if !strings.Contains(result.HandoffMessage, want) {
			t.Fatalf("handoff message missing %q:\n%s", want, result.HandoffMessage)
		}
	}
	if !strings.Contains(result.WhatsAppURL, "https://wa.me/5491122334455?text=") {
		t.Fatalf("unexpected whatsapp url %q", result.WhatsAppURL)
	}

	if lines := fixture.carts.Lines("sess"); len(lines) != 0 {
		t.Fatalf("cart must be cleared after a successful checkout, got %+v", lines)
	}
	if len(fixture.feed.events) != 1 || fixture.feed.events[0].Kind != orders.EventKindCreated {
		t.Fatalf("expected one order-created feed event, got %+v", fixture.feed.events)
	}
}

func TestSubmitDeliveryAddsZoneSurcharge(t *testing.T) {
	fixture := newFixture(t)
	fixture.fillCart()

	address := "Av. Siempre Viva 742"
	zoneID := fixture.store.DeliveryZones[0].ID
	result, err := fixture.svc.Submit(context.Background(), SubmitInput{
		SessionID:       "sess",
		StoreSlug:       "la-esquina",
		CustomerName:    "Ana",
		CustomerPhone:   "5491155556666",
		DeliveryMethod:  enums.DeliveryMethodDelivery,
		DeliveryAddress: &address,
		DeliveryZoneID:  &zoneID,
		PaymentMethod:   enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !result.TotalAmount.Equal(dec("13700")) {
		t.Fatalf("expected total with surcharge 13700, got %s", result.TotalAmount)
	}
	order := fixture.orders.created[0]
	if order.DeliveryZone == nil || *order.DeliveryZone != "Centro" {
		t.Fatalf("expected zone name persisted, got %v", order.DeliveryZone)
	}
}

func TestSubmitOrderSnapshotIgnoresLaterCartPrices(t *testing.T) {
	fixture := newFixture(t)
	pizza := cart.Line{ProductID: uuid.New(), StoreID: fixture.store.ID, ProductName: "Pizza Muzzarella", UnitPrice: dec("10200")}
	fixture.carts.Add("sess", pizza)

	if _, err := fixture.svc.Submit(context.Background(), SubmitInput{
		SessionID:      "sess",
		StoreSlug:      "la-esquina",
		CustomerName:   "Ana",
		CustomerPhone:  "5491155556666",
		DeliveryMethod: enums.DeliveryMethodPickup,
		PaymentMethod:  enums.PaymentMethodCash,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The snapshot belongs to the order, not to the cart or catalog.
	pizza.UnitPrice = dec("99999")
	stored := fixture.orders.created[0].Details
	if !stored[0].UnitPrice.Equal(dec("10200")) {
		t.Fatalf("order snapshot changed after submission, got %s", stored[0].UnitPrice)
	}
}

func TestSubmitValidation(t *testing.T) {
	fixture := newFixture(t)
	fixture.fillCart()

	base := SubmitInput{
		SessionID:      "sess",
		StoreSlug:      "la-esquina",
		CustomerName:   "Ana",
		CustomerPhone:  "5491155556666",
		DeliveryMethod: enums.DeliveryMethodPickup,
		PaymentMethod:  enums.PaymentMethodCash,
	}

	t.Run("transferRequiresProof", func(t *testing.T) {
		input := base
		input.PaymentMethod = enums.PaymentMethodTransfer
		_, err := fixture.svc.Submit(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(fixture.orders.created) != 0 {
			t.Fatal("validation failure must not create an order")
		}
	})

	t.Run("deliveryRequiresAddress", func(t *testing.T) {
		input := base
		input.DeliveryMethod = enums.DeliveryMethodDelivery
		_, err := fixture.svc.Submit(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("emptyCart", func(t *testing.T) {
		input := base
		input.SessionID = "other-session"
		_, err := fixture.svc.Submit(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("cartFilledFromAnotherStore", func(t *testing.T) {
		foreign := cart.Line{ProductID: uuid.New(), StoreID: uuid.New(), ProductName: "Milanesa Napolitana", UnitPrice: dec("8000")}
		fixture.carts.Add("foreign-sess", foreign)

		input := base
		input.SessionID = "foreign-sess"
		_, err := fixture.svc.Submit(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(fixture.orders.created) != 0 {
			t.Fatal("foreign cart must not create an order")
		}
		if lines := fixture.carts.Lines("foreign-sess"); len(lines) != 1 {
			t.Fatalf("rejected cart must stay intact, got %+v", lines)
		}
	})

	t.Run("cartStaysIntactOnFailure", func(t *testing.T) {
		input := base
		input.CustomerPhone = "  "
		if _, err := fixture.svc.Submit(context.Background(), input); err == nil {
			t.Fatal("expected error")
		}
		if lines := fixture.carts.Lines("sess"); len(lines) == 0 {
			t.Fatal("cart must survive a failed checkout")
		}
	})
}
