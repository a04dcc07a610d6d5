package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// Service exposes owner-facing store settings and delivery zone management.
type Service interface {
	GetStore(ctx context.Context, storeID uuid.UUID) (*StoreDTO, error)
	UpdateSettings(ctx context.Context, storeID uuid.UUID, input UpdateSettingsInput) (*StoreDTO, error)
	CreateZone(ctx context.Context, storeID uuid.UUID, input ZoneInput) (*DeliveryZoneDTO, error)
	UpdateZone(ctx context.Context, storeID, zoneID uuid.UUID, input ZoneInput) (*DeliveryZoneDTO, error)
	DeleteZone(ctx context.Context, storeID, zoneID uuid.UUID) error
}

// UpdateSettingsInput holds optional mutation values for the store profile.
// Nil fields are left untouched; the slug cannot change.
type UpdateSettingsInput struct {
	Name          *string
	Phone         *string
	Address       *string
	LogoURL       *string
	PrimaryColor  *string
	Categories    *[]string
	WhatsAppPhone *string
	Schedule      *types.Schedule
}

// ZoneInput creates or replaces a delivery zone.
type ZoneInput struct {
	Name      string
	Surcharge decimal.Decimal
}

// service implements the store settings service.
type service struct {
	repo *Repository
}

// NewService constructs a store settings service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

// GetStore loads the owner's store with its delivery zones.
func (s *service) GetStore(ctx context.Context, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return NewStoreDTO(store), nil
}

// UpdateSettings applies a partial profile update. The schedule is validated
// before it touches the row so a malformed window can never be persisted.
func (s *service) UpdateSettings(ctx context.Context, storeID uuid.UUID, input UpdateSettingsInput) (*StoreDTO, error) {
	if input.Schedule != nil {
		if err := validateSchedule(input.Schedule); err != nil {
			return nil, err
		}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
	}

	store, err := s.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	applySettings(store, input)

	updated, err := s.repo.UpdateStore(ctx, store)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update store")
	}
	return NewStoreDTO(updated), nil
}

// CreateZone adds a delivery zone to the store.
func (s *service) CreateZone(ctx context.Context, storeID uuid.UUID, input ZoneInput) (*DeliveryZoneDTO, error) {
	if err := validateZoneInput(input); err != nil {
		return nil, err
	}
	if _, err := s.loadStore(ctx, storeID); err != nil {
		return nil, err
	}

	zone, err := s.repo.CreateZone(ctx, &models.DeliveryZone{
		StoreID:   storeID,
		Name:      strings.TrimSpace(input.Name),
		Surcharge: input.Surcharge,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create zone")
	}
	dto := NewDeliveryZoneDTO(zone)
	return &dto, nil
}

// UpdateZone replaces the name and surcharge of one zone.
func (s *service) UpdateZone(ctx context.Context, storeID, zoneID uuid.UUID, input ZoneInput) (*DeliveryZoneDTO, error) {
	if err := validateZoneInput(input); err != nil {
		return nil, err
	}

	zone, err := s.loadOwnedZone(ctx, storeID, zoneID)
	if err != nil {
		return nil, err
	}

	zone.Name = strings.TrimSpace(input.Name)
	zone.Surcharge = input.Surcharge

	updated, err := s.repo.UpdateZone(ctx, zone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update zone")
	}
	dto := NewDeliveryZoneDTO(updated)
	return &dto, nil
}

// DeleteZone removes one zone. Existing orders keep the zone name they
// captured at checkout time.
func (s *service) DeleteZone(ctx context.Context, storeID, zoneID uuid.UUID) error {
	if _, err := s.loadOwnedZone(ctx, storeID, zoneID); err != nil {
		return err
	}
	if err := s.repo.DeleteZone(ctx, zoneID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete zone")
	}
	return nil
}

func (s *service) loadStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

// loadOwnedZone hides zones belonging to other stores behind a not-found.
func (s *service) loadOwnedZone(ctx context.Context, storeID, zoneID uuid.UUID) (*models.DeliveryZone, error) {
	zone, err := s.repo.FindZoneByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
	}
	if zone.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
	}
	return zone, nil
}

func applySettings(store *models.Store, input UpdateSettingsInput) {
	if input.Name != nil {
		store.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Address != nil {
		store.Address = input.Address
	}
	if input.LogoURL != nil {
		store.LogoURL = input.LogoURL
	}
	if input.PrimaryColor != nil {
		store.PrimaryColor = input.PrimaryColor
	}
	if input.Categories != nil {
		store.Categories = *input.Categories
	}
	if input.WhatsAppPhone != nil {
		store.WhatsAppPhone = input.WhatsAppPhone
	}
	if input.Schedule != nil {
		store.Schedule = input.Schedule
	}
}

func validateZoneInput(input ZoneInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone name is required")
	}
	if input.Surcharge.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone surcharge cannot be negative")
	}
	return nil
}

func validateSchedule(schedule *types.Schedule) error {
	if _, err := time.Parse("15:04", schedule.OpenTime); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "open_time must be HH:MM")
	}
	if _, err := time.Parse("15:04", schedule.CloseTime); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "close_time must be HH:MM")
	}
	for _, date := range schedule.ClosedDates {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("closed date %q must be YYYY-MM-DD", date))
		}
	}
	return nil
}
