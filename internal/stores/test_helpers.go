package stores

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
)

func mustBuildStore(t *testing.T) *models.Store {
	t.Helper()
	return &models.Store{
		ID:          uuid.New(),
		Slug:        "la-esquina",
		Name:        "La Esquina",
		OwnerEmail:  "owner@example.com",
		TrialEndsAt: time.Now().Add(15 * 24 * time.Hour),
		TrialStatus: enums.TrialStatusActive,
	}
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
