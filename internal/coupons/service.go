package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/stores"
	"github.com/emilianovazquez/pedilo-backend/pkg/db"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

// Service exposes trial-coupon redemption and operator coupon management.
type Service interface {
	Apply(ctx context.Context, storeID uuid.UUID, code string) (*RedemptionDTO, error)
	CreateCoupon(ctx context.Context, input CreateCouponInput) (*CouponDTO, error)
	ListCoupons(ctx context.Context) ([]CouponDTO, error)
	SetActive(ctx context.Context, couponID uuid.UUID, active bool) error
}

// CreateCouponInput holds the operator payload for a new coupon.
type CreateCouponInput struct {
	Code          string
	DaysExtension int
	MaxUses       *int
	ExpiresAt     *time.Time
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// service implements the coupon ledger.
type service struct {
	tx      txRunner
	coupons CouponRepository
	stores  stores.StoreRepository
	now     func() time.Time
}

// NewService constructs the coupon service.
func NewService(tx txRunner, coupons CouponRepository, storeRepo stores.StoreRepository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{tx: tx, coupons: coupons, stores: storeRepo, now: time.Now}, nil
}

// Apply redeems a coupon for one store. The redemption row, the use counter,
// and the trial extension commit together; the unique (coupon_id, store_id)
// index settles the race when a store submits the same code twice.
func (s *service) Apply(ctx context.Context, storeID uuid.UUID, code string) (*RedemptionDTO, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	now := s.now().UTC()
	if !coupon.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}

	var dto *RedemptionDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store, err := s.stores.WithTx(tx).FindByID(ctx, storeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}

		coupons := s.coupons.WithTx(tx)

		err = coupons.InsertRedemption(ctx, &models.CouponRedemption{
			CouponID: coupon.ID,
			StoreID:  store.ID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "idx_redemptions_coupon_store") {
				return pkgerrors.New(pkgerrors.CodeConflict, "coupon already redeemed by this store")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert redemption")
		}

		consumed, err := coupons.ConsumeUse(ctx, coupon.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: consume coupon use")
		}
		if !consumed {
			return pkgerrors.New(pkgerrors.CodeConflict, "coupon has no uses left")
		}

		// The extension counts from the current trial end, not from today,
		// so stacking coupons never loses remaining trial days.
		newEnd := store.TrialEndsAt.AddDate(0, 0, coupon.DaysExtension)
		if err := s.stores.WithTx(tx).ExtendTrial(ctx, store.ID, newEnd); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: extend trial")
		}

		dto = &RedemptionDTO{
			CouponCode:    coupon.Code,
			DaysExtension: coupon.DaysExtension,
			TrialEndsAt:   newEnd,
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply coupon")
	}

	return dto, nil
}

// CreateCoupon inserts a new operator coupon.
func (s *service) CreateCoupon(ctx context.Context, input CreateCouponInput) (*CouponDTO, error) {
	if strings.TrimSpace(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if input.DaysExtension <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days_extension must be positive")
	}
	if input.MaxUses != nil && *input.MaxUses <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_uses must be positive when set")
	}

	coupon, err := s.coupons.CreateCoupon(ctx, &models.Coupon{
		Code:          input.Code,
		DaysExtension: input.DaysExtension,
		MaxUses:       input.MaxUses,
		Active:        true,
		ExpiresAt:     input.ExpiresAt,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create coupon")
	}
	dto := NewCouponDTO(coupon)
	return &dto, nil
}

// ListCoupons returns every coupon for the operator dashboard.
func (s *service) ListCoupons(ctx context.Context) ([]CouponDTO, error) {
	coupons, err := s.coupons.ListCoupons(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list coupons")
	}
	result := make([]CouponDTO, 0, len(coupons))
	for i := range coupons {
		result = append(result, NewCouponDTO(&coupons[i]))
	}
	return result, nil
}

// SetActive flips a coupon on or off.
func (s *service) SetActive(ctx context.Context, couponID uuid.UUID, active bool) error {
	err := s.coupons.SetActive(ctx, couponID, active)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set coupon active")
	}
	return nil
}
