package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
)

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

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, storeID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:     storeID,
		Name:        "Test Product",
		Price:       decimal.RequireFromString("1000"),
		IsAvailable: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
