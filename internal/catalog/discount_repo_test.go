package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

func TestRepositoryDiscountUpsertKeepsOneRowPerDay(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	store := mustCreateTestStore(t, tx)
	product := mustCreateTestProduct(t, tx, store.ID)

	first := &models.Discount{
		ProductID: product.ID,
		DayOfWeek: int(time.Saturday),
		Percent:   dec("10"),
		IsActive:  true,
	}
	if _, err := repo.UpsertDiscount(ctx, first); err != nil {
		t.Fatalf("upsert discount: %v", err)
	}

	replacement := &models.Discount{
		ProductID: product.ID,
		DayOfWeek: int(time.Saturday),
		Percent:   dec("25"),
		IsActive:  true,
	}
	if _, err := repo.UpsertDiscount(ctx, replacement); err != nil {
		t.Fatalf("upsert replacement: %v", err)
	}

	list, err := repo.ListDiscountsByProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("list discounts: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 discount row after upsert, got %d", len(list))
	}
	if !list[0].Percent.Equal(dec("25")) {
		t.Fatalf("expected replaced percent 25, got %s", list[0].Percent)
	}
}

func TestRepositoryDeleteDiscountScopedToProduct(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	store := mustCreateTestStore(t, tx)
	owner := mustCreateTestProduct(t, tx, store.ID)
	other := mustCreateTestProduct(t, tx, store.ID)

	discount, err := repo.UpsertDiscount(ctx, &models.Discount{
		ProductID: owner.ID,
		DayOfWeek: int(time.Friday),
		Percent:   dec("20"),
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("upsert discount: %v", err)
	}

	// Pairing a different product with this discount ID must not remove it.
	if err := repo.DeleteDiscount(ctx, other.ID, discount.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for mismatched product, got %v", err)
	}
	list, err := repo.ListDiscountsByProduct(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list discounts: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("discount must survive a mismatched delete, got %d rows", len(list))
	}

	if err := repo.DeleteDiscount(ctx, owner.ID, discount.ID); err != nil {
		t.Fatalf("delete own discount: %v", err)
	}
	list, err = repo.ListDiscountsByProduct(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list discounts: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected discount removed, got %d rows", len(list))
	}
}

func TestRepositoryProductLifecycle(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	store := mustCreateTestStore(t, tx)
	product := mustCreateTestProduct(t, tx, store.ID)

	loaded, err := repo.FindProductByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if loaded.StoreID != store.ID {
		t.Fatalf("unexpected store id %s", loaded.StoreID)
	}

	loaded.Name = "Renamed"
	if _, err := repo.UpdateProduct(ctx, loaded); err != nil {
		t.Fatalf("update product: %v", err)
	}

	list, err := repo.ListProductsByStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Renamed" {
		t.Fatalf("expected renamed product, got %+v", list)
	}

	if err := repo.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.FindProductByID(ctx, product.ID); err == nil {
		t.Fatal("expected deleted product to be gone")
	}
}
