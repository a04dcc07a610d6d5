package stores

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
)

// StoreRepository defines tenant persistence. FindBySlug always loads the
// delivery zones because every public read needs them.
type StoreRepository interface {
	WithTx(tx *gorm.DB) StoreRepository
	CreateStore(context.Context, *models.Store) (*models.Store, error)
	UpdateStore(context.Context, *models.Store) (*models.Store, error)
	FindByID(context.Context, uuid.UUID) (*models.Store, error)
	FindBySlug(context.Context, string) (*models.Store, error)
	SlugExists(context.Context, string) (bool, error)
	ExtendTrial(ctx context.Context, storeID uuid.UUID, until time.Time) error
	ListTrialExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Store, error)
	MarkTrialExpired(ctx context.Context, storeID uuid.UUID) error
}

// ZoneRepository exposes delivery zone CRUD.
type ZoneRepository interface {
	CreateZone(context.Context, *models.DeliveryZone) (*models.DeliveryZone, error)
	UpdateZone(context.Context, *models.DeliveryZone) (*models.DeliveryZone, error)
	DeleteZone(context.Context, uuid.UUID) error
	FindZoneByID(context.Context, uuid.UUID) (*models.DeliveryZone, error)
}

// Repository wires together the store and zone persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) StoreRepository {
	return &Repository{db: tx}
}

// CreateStore inserts a new tenant row.
func (r *Repository) CreateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// UpdateStore saves all store columns except the slug, which is immutable
// after registration.
func (r *Repository) UpdateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	err := r.db.WithContext(ctx).
		Omit("slug", "DeliveryZones").
		Save(store).Error
	if err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads the store with its delivery zones.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Preload("DeliveryZones").First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindBySlug loads the store behind a public storefront path.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Preload("DeliveryZones").First(&store, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// SlugExists reports whether a slug is already taken.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExtendTrial moves the trial deadline and reactivates the store in one
// statement so a webhook and a coupon redemption cannot race each other
// into a half-updated row.
func (r *Repository) ExtendTrial(ctx context.Context, storeID uuid.UUID, until time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(map[string]any{
			"trial_ends_at": until,
			"trial_status":  enums.TrialStatusActive,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTrialExpiredBefore returns active stores whose trial deadline passed.
func (r *Repository) ListTrialExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).
		Where("trial_status = ? AND trial_ends_at < ?", enums.TrialStatusActive, cutoff).
		Find(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// MarkTrialExpired flips a store to expired.
func (r *Repository) MarkTrialExpired(ctx context.Context, storeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Update("trial_status", enums.TrialStatusExpired).Error
}

// CreateZone inserts a delivery zone.
func (r *Repository) CreateZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	if err := r.db.WithContext(ctx).Create(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

// UpdateZone saves all zone columns.
func (r *Repository) UpdateZone(ctx context.Context, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	if err := r.db.WithContext(ctx).Save(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

// DeleteZone removes one delivery zone.
func (r *Repository) DeleteZone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DeliveryZone{}).Error
}

// FindZoneByID loads one delivery zone.
func (r *Repository) FindZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}
