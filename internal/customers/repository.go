package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

// CustomerRepository defines persistence operations for store customers.
type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	UpsertByPhone(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Customer, error)
}

// Repository wires customer persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) CustomerRepository {
	return &Repository{db: tx}
}

// UpsertByPhone creates the customer, or refreshes name and last_order_at on
// the existing (store_id, phone) row. Repeated orders from the same phone
// never create duplicates.
func (r *Repository) UpsertByPhone(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.LastOrderAt == nil {
		now := time.Now().UTC()
		customer.LastOrderAt = &now
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "last_order_at", "updated_at"}),
		}).
		Create(customer).Error
	if err != nil {
		return nil, err
	}

	// The upsert does not report the surviving row's ID on conflict; reload
	// by the natural key.
	var persisted models.Customer
	err = r.db.WithContext(ctx).
		First(&persisted, "store_id = ? AND phone = ?", customer.StoreID, customer.Phone).Error
	if err != nil {
		return nil, err
	}
	return &persisted, nil
}

// FindByID loads one customer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListByStore loads a store's customers, most recent buyers first.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("last_order_at DESC NULLS LAST").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
