package coupons

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("PEDILO_DB_DSN")
	if dsn == "" {
		t.Skip("PEDILO_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestStore(t *testing.T, tx *gorm.DB) *models.Store {
	t.Helper()
	store := &models.Store{
		ID:          uuid.New(),
		Slug:        fmt.Sprintf("test-store-%s", uuid.NewString()),
		Name:        "Repo Store",
		OwnerEmail:  fmt.Sprintf("pedilo_test_%s@example.com", uuid.NewString()),
		TrialEndsAt: time.Now().Add(15 * 24 * time.Hour),
		TrialStatus: enums.TrialStatusActive,
	}
	if err := tx.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestRedemptionUniquePerStore(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()
	store := mustCreateTestStore(t, tx)

	coupon, err := repo.CreateCoupon(ctx, &models.Coupon{
		Code:          fmt.Sprintf("test-%s", uuid.NewString()),
		DaysExtension: 30,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	first := repo.InsertRedemption(ctx, &models.CouponRedemption{
		CouponID: coupon.ID,
		StoreID:  store.ID,
	})
	if first != nil {
		t.Fatalf("first redemption: %v", first)
	}

	second := repo.InsertRedemption(ctx, &models.CouponRedemption{
		CouponID: coupon.ID,
		StoreID:  store.ID,
	})
	if second == nil {
		t.Fatal("second redemption by the same store must fail")
	}
	if !db.IsUniqueViolation(second, "idx_redemptions_coupon_store") {
		t.Fatalf("expected unique violation on redemption index, got %v", second)
	}
}

func TestConsumeUseRespectsCap(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()

	one := 1
	coupon, err := repo.CreateCoupon(ctx, &models.Coupon{
		Code:          fmt.Sprintf("test-%s", uuid.NewString()),
		DaysExtension: 30,
		MaxUses:       &one,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	consumed, err := repo.ConsumeUse(ctx, coupon.ID)
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if !consumed {
		t.Fatal("first use must be consumable")
	}

	consumed, err = repo.ConsumeUse(ctx, coupon.ID)
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if consumed {
		t.Fatal("use past max_uses must be rejected")
	}
}

func TestFindByCodeIsCaseInsensitive(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	ctx := context.Background()

	code := fmt.Sprintf("test-%s", uuid.NewString())
	if _, err := repo.CreateCoupon(ctx, &models.Coupon{Code: code, DaysExtension: 30, Active: true}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	found, err := repo.FindByCode(ctx, code)
	if err != nil {
		t.Fatalf("find by lowercase input: %v", err)
	}
	if found.Code != strings.ToUpper(code) {
		t.Fatalf("expected code stored uppercase, got %q", found.Code)
	}
}
