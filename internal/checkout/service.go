package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	"github.com/emilianovazquez/pedilo-backend/pkg/metrics"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

type cartSession interface {
	Lines(sessionID string) []cart.Line
	Clear(sessionID string)
}

// Service executes the order submission flow.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

// SubmitInput is the validated checkout payload.
type SubmitInput struct {
	SessionID       string
	StoreSlug       string
	CustomerName    string
	CustomerPhone   string
	DeliveryMethod  enums.DeliveryMethod
	DeliveryAddress *string
	DeliveryZoneID  *uuid.UUID
	PaymentMethod   enums.PaymentMethod
	PaymentProofURL *string
}

// SubmitResult carries the placed order plus the WhatsApp handoff.
type SubmitResult struct {
	OrderID        uuid.UUID       `json:"order_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	HandoffMessage string          `json:"handoff_message"`
	WhatsAppURL    string          `json:"whatsapp_url"`
}

type service struct {
	tx        txRunner
	stores    storeFinder
	customers customers.CustomerRepository
	orders    orders.Repository
	carts     cartSession
	feed      orders.Feed
	metrics   *metrics.CheckoutMetrics
}

// NewService builds the checkout orchestrator.
func NewService(
	tx txRunner,
	stores storeFinder,
	customers customers.CustomerRepository,
	ordersRepo orders.Repository,
	carts cartSession,
	feed orders.Feed,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	return &service{
		tx:        tx,
		stores:    stores,
		customers: customers,
		orders:    ordersRepo,
		carts:     carts,
		feed:      feed,
		metrics:   checkoutMetrics,
	}, nil
}

// Submit validates the payload, persists the customer and order in one
// transaction, and returns the WhatsApp handoff. The cart is cleared only
// after the writes commit, so a failed checkout leaves it intact for resubmission.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	result, err := s.submit(ctx, input)
	s.observe(err)
	return result, err
}

func (s *service) submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if err := validateSubmitInput(input); err != nil {
		return nil, err
	}

	store, err := s.stores.FindBySlug(ctx, strings.TrimSpace(input.StoreSlug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	lines := s.carts.Lines(input.SessionID)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range lines {
		if line.StoreID != store.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart belongs to another store")
		}
	}

	snapshot := make(types.OrderLines, len(lines))
	for i, line := range lines {
		snapshot[i] = types.OrderLine{
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		}
	}

	surcharge := decimal.Zero
	var zoneName *string
	if input.DeliveryMethod == enums.DeliveryMethodDelivery && input.DeliveryZoneID != nil {
		zone := findZone(store.DeliveryZones, *input.DeliveryZoneID)
		if zone == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery zone")
		}
		surcharge = zone.Surcharge
		zoneName = &zone.Name
	}

	total := snapshot.Subtotal().Add(surcharge)

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customer, err := s.customers.WithTx(tx).UpsertByPhone(ctx, &models.Customer{
			StoreID: store.ID,
			Phone:   strings.TrimSpace(input.CustomerPhone),
			Name:    strings.TrimSpace(input.CustomerName),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert customer")
		}

		order, err = s.orders.WithTx(tx).CreateOrder(ctx, &models.Order{
			StoreID:         store.ID,
			CustomerID:      customer.ID,
			TotalAmount:     total,
			DeliveryMethod:  input.DeliveryMethod,
			PaymentMethod:   input.PaymentMethod,
			DeliveryAddress: deliveryAddress(input),
			DeliveryZone:    zoneName,
			PaymentProofURL: input.PaymentProofURL,
			Details:         snapshot,
			Status:          enums.OrderStatusPending,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
	}

	s.carts.Clear(input.SessionID)

	if s.feed != nil {
		_ = s.feed.Publish(ctx, orders.Event{
			OrderID:   order.ID,
			StoreID:   store.ID,
			Kind:      orders.EventKindCreated,
			Status:    order.Status.String(),
			CreatedAt: time.Now().UTC(),
		})
	}

	message := BuildHandoffMessage(MessageInput{
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		DeliveryMethod:  input.DeliveryMethod,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryZone:    zoneName,
		PaymentMethod:   input.PaymentMethod,
		PaymentProofURL: input.PaymentProofURL,
		Lines:           snapshot,
		Surcharge:       surcharge,
		Total:           total,
	})

	return &SubmitResult{
		OrderID:        order.ID,
		TotalAmount:    total,
		HandoffMessage: message,
		WhatsAppURL:    WhatsAppLink(handoffPhone(store), message),
	}, nil
}

func validateSubmitInput(input SubmitInput) error {
	if strings.TrimSpace(input.SessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session ID is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if !input.DeliveryMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery method")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.DeliveryMethod == enums.DeliveryMethodDelivery {
		if input.DeliveryAddress == nil || strings.TrimSpace(*input.DeliveryAddress) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
		}
	}
	// Proof is checked before any write happens.
	if input.PaymentMethod == enums.PaymentMethodTransfer {
		if input.PaymentProofURL == nil || strings.TrimSpace(*input.PaymentProofURL) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "transfer payments require a payment proof")
		}
	}
	return nil
}

func deliveryAddress(input SubmitInput) *string {
	if input.DeliveryMethod != enums.DeliveryMethodDelivery {
		return nil
	}
	trimmed := strings.TrimSpace(*input.DeliveryAddress)
	return &trimmed
}

func findZone(zones []models.DeliveryZone, id uuid.UUID) *models.DeliveryZone {
	for i := range zones {
		if zones[i].ID == id {
			return &zones[i]
		}
	}
	return nil
}

// handoffPhone picks the WhatsApp number the deep link targets.
func handoffPhone(store *models.Store) string {
	if store.WhatsAppPhone != nil && *store.WhatsAppPhone != "" {
		return *store.WhatsAppPhone
	}
	if store.Phone != nil {
		return *store.Phone
	}
	return ""
}

func (s *service) observe(err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.IncSubmission("failure")
		return
	}
	s.metrics.IncSubmission("success")
}
