package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/stores"
	"github.com/emilianovazquez/pedilo-backend/pkg/config"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
	mp "github.com/emilianovazquez/pedilo-backend/pkg/mercadopago"
)

// Notification is the parsed webhook payload. MercadoPago only sends the
// payment ID; everything else is fetched back from the API because the
// notification body is unauthenticated.
type Notification struct {
	Type      string
	PaymentID string
}

// Service processes payment notifications.
type Service interface {
	Handle(ctx context.Context, notification Notification) error
}

type paymentFetcher interface {
	GetPayment(ctx context.Context, paymentID string) (*mp.Payment, error)
}

type idempotencyStore interface {
	IdempotencyKey(scope, id string) string
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// service implements webhook processing.
type service struct {
	payments paymentFetcher
	stores   stores.StoreRepository
	idem     idempotencyStore
	trial    config.TrialConfig
	logg     *logger.Logger
	now      func() time.Time
}

// idempotencyTTL bounds how long a processed payment ID is remembered.
// MercadoPago retries for at most a couple of days.
const idempotencyTTL = 7 * 24 * time.Hour

// NewService constructs the webhook processor.
func NewService(
	payments paymentFetcher,
	storeRepo stores.StoreRepository,
	idem idempotencyStore,
	trial config.TrialConfig,
	logg *logger.Logger,
) (Service, error) {
	if payments == nil {
		return nil, fmt.Errorf("payment client required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if idem == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		payments: payments,
		stores:   storeRepo,
		idem:     idem,
		trial:    trial,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Handle processes one notification. Non-payment events and unapproved
// payments are acknowledged without side effects; an approved payment extends
// the store's trial exactly once per payment ID.
func (s *service) Handle(ctx context.Context, notification Notification) error {
	if notification.Type != "payment" {
		return nil
	}
	if notification.PaymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	key := s.idem.IdempotencyKey("mp_payment", notification.PaymentID)
	fresh, err := s.idem.SetNX(ctx, key, "1", idempotencyTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: reserve payment id")
	}
	if !fresh {
		s.logg.Info(ctx, "duplicate payment notification ignored: "+notification.PaymentID)
		return nil
	}

	if err := s.process(ctx, notification.PaymentID); err != nil {
		// Release the reservation so MercadoPago's retry can succeed.
		if delErr := s.idem.Del(ctx, key); delErr != nil {
			s.logg.Warn(ctx, "release idempotency key failed: "+delErr.Error())
		}
		return err
	}
	return nil
}

func (s *service) process(ctx context.Context, paymentID string) error {
	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if !payment.Approved() {
		s.logg.Info(ctx, fmt.Sprintf("payment %s not approved (status %s), skipped", paymentID, payment.Status))
		return nil
	}

	storeID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment external reference is not a store id")
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	// Extend from the later of now and the current deadline so a payment
	// made before expiry keeps the remaining days.
	base := store.TrialEndsAt
	if now := s.now().UTC(); base.Before(now) {
		base = now
	}
	newEnd := base.AddDate(0, 0, s.trial.PaymentExtensionDays)

	if err := s.stores.ExtendTrial(ctx, store.ID, newEnd); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: extend trial")
	}

	s.logg.Info(
		s.logg.WithStoreID(ctx, store.ID.String()),
		fmt.Sprintf("trial extended to %s by payment %s", newEnd.Format(time.RFC3339), paymentID),
	)
	return nil
}
