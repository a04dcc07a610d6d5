package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/coupons"
	"github.com/emilianovazquez/pedilo-backend/internal/stores"
	"github.com/emilianovazquez/pedilo-backend/pkg/config"
	"github.com/emilianovazquez/pedilo-backend/pkg/db"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
	"github.com/emilianovazquez/pedilo-backend/pkg/mailer"
	"github.com/emilianovazquez/pedilo-backend/pkg/mercadopago"
)

// Service handles new-store signups.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegistrationDTO, error)
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	StoreName  string
	OwnerEmail string
	Phone      *string
	CouponCode *string
}

// RegistrationDTO is returned after a successful signup.
type RegistrationDTO struct {
	StoreID     uuid.UUID `json:"store_id"`
	Slug        string    `json:"slug"`
	TrialEndsAt time.Time `json:"trial_ends_at"`
	PaymentURL  *string   `json:"payment_url,omitempty"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type couponApplier interface {
	Apply(ctx context.Context, storeID uuid.UUID, code string) (*coupons.RedemptionDTO, error)
}

type preferenceCreator interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
}

// service implements signup orchestration.
type service struct {
	tx       txRunner
	stores   stores.StoreRepository
	coupons  couponApplier
	mail     mailer.Sender
	payments preferenceCreator
	trial    config.TrialConfig
	mp       config.MercadoPagoConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the registration service. The mailer and the payment
// client are optional; a deployment without SMTP or MercadoPago still
// registers stores.
func NewService(
	tx txRunner,
	storeRepo stores.StoreRepository,
	couponSvc couponApplier,
	mail mailer.Sender,
	payments preferenceCreator,
	trial config.TrialConfig,
	mp config.MercadoPagoConfig,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		stores:   storeRepo,
		coupons:  couponSvc,
		mail:     mail,
		payments: payments,
		trial:    trial,
		mp:       mp,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Register creates the store row, applies the optional signup coupon, and
// fires the welcome email. Email and payment preference are best-effort; the
// signup succeeds without them.
func (s *service) Register(ctx context.Context, input RegisterInput) (*RegistrationDTO, error) {
	name := strings.TrimSpace(input.StoreName)
	email := strings.TrimSpace(input.OwnerEmail)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner email is required")
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name must contain letters or digits")
	}
	slug, err := s.availableSlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		Slug:        slug,
		Name:        name,
		OwnerEmail:  email,
		Phone:       input.Phone,
		TrialEndsAt: s.now().UTC().AddDate(0, 0, s.trial.DefaultDays),
		TrialStatus: enums.TrialStatusActive,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.stores.WithTx(tx).CreateStore(ctx, store); err != nil {
			if db.IsUniqueViolation(err, "idx_stores_slug") {
				return pkgerrors.New(pkgerrors.CodeConflict, "store slug already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create store")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register store")
	}

	result := &RegistrationDTO{
		StoreID:     store.ID,
		Slug:        store.Slug,
		TrialEndsAt: store.TrialEndsAt,
	}

	if input.CouponCode != nil && strings.TrimSpace(*input.CouponCode) != "" && s.coupons != nil {
		redemption, err := s.coupons.Apply(ctx, store.ID, *input.CouponCode)
		if err != nil {
			// A bad signup coupon does not undo the registration.
			s.logg.Warn(s.logg.WithStoreID(ctx, store.ID.String()), "signup coupon rejected: "+err.Error())
		} else {
			result.TrialEndsAt = redemption.TrialEndsAt
		}
	}

	s.sendWelcomeEmail(ctx, store)

	if url := s.createPaymentPreference(ctx, store); url != nil {
		result.PaymentURL = url
	}

	return result, nil
}

// availableSlug appends a numeric suffix until the slug is free.
func (s *service) availableSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for attempt := 2; ; attempt++ {
		taken, err := s.stores.SlugExists(ctx, slug)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check slug")
		}
		if !taken {
			return slug, nil
		}
		if attempt > maxSlugAttempts {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "could not derive a free slug")
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}

const maxSlugAttempts = 50

func (s *service) sendWelcomeEmail(ctx context.Context, store *models.Store) {
	if s.mail == nil {
		return
	}
	body := fmt.Sprintf(
		"<p>Hola %s!</p><p>Tu tienda ya esta lista en <b>/%s</b>. Tu prueba vence el %s.</p>",
		store.Name, store.Slug, store.TrialEndsAt.Format("02/01/2006"),
	)
	if err := s.mail.Send(store.OwnerEmail, "Bienvenido a Pedilo", body); err != nil {
		s.logg.Warn(s.logg.WithStoreID(ctx, store.ID.String()), "welcome email failed: "+err.Error())
	}
}

// createPaymentPreference sets up the subscription checkout link. The store
// ID rides along as the external reference so the webhook can find it later.
func (s *service) createPaymentPreference(ctx context.Context, store *models.Store) *string {
	if s.payments == nil {
		return nil
	}
	price, err := decimal.NewFromString(s.mp.PlanPrice)
	if err != nil {
		s.logg.Warn(ctx, "invalid plan price configured: "+s.mp.PlanPrice)
		return nil
	}

	preference, err := s.payments.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			Title:     "Pedilo - Suscripcion mensual",
			Quantity:  1,
			UnitPrice: price,
		}},
		ExternalReference: store.ID.String(),
	})
	if err != nil {
		s.logg.Warn(s.logg.WithStoreID(ctx, store.ID.String()), "payment preference failed: "+err.Error())
		return nil
	}
	return &preference.InitPoint
}
