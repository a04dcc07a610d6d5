package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/stores"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCouponRepo struct {
	coupon      *models.Coupon
	redemptions []models.CouponRedemption
	usesLeft    bool
}

func (s *stubCouponRepo) WithTx(tx *gorm.DB) CouponRepository { return s }

func (s *stubCouponRepo) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	coupon.ID = uuid.New()
	return coupon, nil
}

func (s *stubCouponRepo) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return nil, nil
}

func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.coupon == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.coupon, nil
}

func (s *stubCouponRepo) SetActive(ctx context.Context, couponID uuid.UUID, active bool) error {
	return nil
}

func (s *stubCouponRepo) ConsumeUse(ctx context.Context, couponID uuid.UUID) (bool, error) {
	return s.usesLeft, nil
}

func (s *stubCouponRepo) InsertRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	s.redemptions = append(s.redemptions, *redemption)
	return nil
}

type stubStoreRepo struct {
	store    *models.Store
	extended *time.Time
}

func (s *stubStoreRepo) WithTx(tx *gorm.DB) stores.StoreRepository { return s }

func (s *stubStoreRepo) CreateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	return store, nil
}

func (s *stubStoreRepo) UpdateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	return store, nil
}

func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s.store == nil || s.store.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

func (s *stubStoreRepo) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

func (s *stubStoreRepo) ExtendTrial(ctx context.Context, storeID uuid.UUID, until time.Time) error {
	s.extended = &until
	return nil
}

func (s *stubStoreRepo) ListTrialExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Store, error) {
	return nil, nil
}

func (s *stubStoreRepo) MarkTrialExpired(ctx context.Context, storeID uuid.UUID) error {
	return nil
}

func testStore() *models.Store {
	return &models.Store{
		ID:          uuid.New(),
		Slug:        "la-esquina",
		Name:        "La Esquina",
		TrialEndsAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TrialStatus: enums.TrialStatusActive,
	}
}

func newApplyService(t *testing.T, coupons *stubCouponRepo, storeRepo *stubStoreRepo) Service {
	t.Helper()
	svc, err := NewService(stubTxRunner{}, coupons, storeRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestApplyExtendsFromCurrentTrialEnd(t *testing.T) {
	store := testStore()
	couponRepo := &stubCouponRepo{
		coupon:   &models.Coupon{ID: uuid.New(), Code: "WELCOME30", DaysExtension: 30, Active: true},
		usesLeft: true,
	}
	storeRepo := &stubStoreRepo{store: store}
	svc := newApplyService(t, couponRepo, storeRepo)

	dto, err := svc.Apply(context.Background(), store.ID, "WELCOME30")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	if !dto.TrialEndsAt.Equal(want) {
		t.Fatalf("expected trial end %s, got %s", want, dto.TrialEndsAt)
	}
	if storeRepo.extended == nil || !storeRepo.extended.Equal(want) {
		t.Fatalf("expected ExtendTrial called with %s, got %v", want, storeRepo.extended)
	}
	if len(couponRepo.redemptions) != 1 {
		t.Fatalf("expected one redemption row, got %d", len(couponRepo.redemptions))
	}
}

func TestApplyRejections(t *testing.T) {
	store := testStore()
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		coupon   *models.Coupon
		usesLeft bool
		wantCode pkgerrors.Code
	}{
		{"unknownCode", nil, true, pkgerrors.CodeNotFound},
		{"inactive", &models.Coupon{ID: uuid.New(), Code: "OFF", Active: false}, true, pkgerrors.CodeNotFound},
		{"expired", &models.Coupon{ID: uuid.New(), Code: "OLD", Active: true, ExpiresAt: &past}, true, pkgerrors.CodeValidation},
		{"exhausted", &models.Coupon{ID: uuid.New(), Code: "FULL", Active: true}, false, pkgerrors.CodeConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			couponRepo := &stubCouponRepo{coupon: tc.coupon, usesLeft: tc.usesLeft}
			storeRepo := &stubStoreRepo{store: store}
			svc := newApplyService(t, couponRepo, storeRepo)

			_, err := svc.Apply(context.Background(), store.ID, "WHATEVER")
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
			if storeRepo.extended != nil {
				t.Fatal("trial must not be extended on a rejected redemption")
			}
		})
	}
}

func TestCreateCouponValidation(t *testing.T) {
	svc := newApplyService(t, &stubCouponRepo{}, &stubStoreRepo{})
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, CreateCouponInput{Code: "  ", DaysExtension: 30})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank code, got %v", err)
	}

	_, err = svc.CreateCoupon(ctx, CreateCouponInput{Code: "X", DaysExtension: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero extension, got %v", err)
	}

	zero := 0
	_, err = svc.CreateCoupon(ctx, CreateCouponInput{Code: "X", DaysExtension: 30, MaxUses: &zero})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero max_uses, got %v", err)
	}
}
