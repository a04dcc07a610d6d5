package customers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

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

func TestRepositoryUpsertByPhoneRefreshesExistingRow(t *testing.T) {
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

	first, err := repo.UpsertByPhone(ctx, &models.Customer{
		StoreID: store.ID,
		Phone:   "5491122334455",
		Name:    "Ana",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := repo.UpsertByPhone(ctx, &models.Customer{
		StoreID: store.ID,
		Phone:   "5491122334455",
		Name:    "Ana Maria",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("upsert must reuse the row, got %s and %s", first.ID, second.ID)
	}
	if second.Name != "Ana Maria" {
		t.Fatalf("expected refreshed name, got %q", second.Name)
	}

	list, err := repo.ListByStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single customer row, got %d", len(list))
	}
}
