package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// StoreDTO is the owner-facing tenant payload.
type StoreDTO struct {
	ID                 uuid.UUID         `json:"id"`
	Slug               string            `json:"slug"`
	Name               string            `json:"name"`
	OwnerEmail         string            `json:"owner_email"`
	Phone              *string           `json:"phone,omitempty"`
	Address            *string           `json:"address,omitempty"`
	LogoURL            *string           `json:"logo_url,omitempty"`
	PrimaryColor       *string           `json:"primary_color,omitempty"`
	Categories         []string          `json:"categories"`
	WhatsAppPhone      *string           `json:"whatsapp_phone,omitempty"`
	WhatsAppInstanceID *string           `json:"whatsapp_instance_id,omitempty"`
	Schedule           *types.Schedule   `json:"schedule,omitempty"`
	TrialEndsAt        time.Time         `json:"trial_ends_at"`
	TrialStatus        string            `json:"trial_status"`
	DeliveryZones      []DeliveryZoneDTO `json:"delivery_zones"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// DeliveryZoneDTO is one named area with its surcharge.
type DeliveryZoneDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// NewStoreDTO maps a store row into its API shape.
func NewStoreDTO(store *models.Store) *StoreDTO {
	zones := make([]DeliveryZoneDTO, 0, len(store.DeliveryZones))
	for _, zone := range store.DeliveryZones {
		zones = append(zones, NewDeliveryZoneDTO(&zone))
	}
	return &StoreDTO{
		ID:                 store.ID,
		Slug:               store.Slug,
		Name:               store.Name,
		OwnerEmail:         store.OwnerEmail,
		Phone:              store.Phone,
		Address:            store.Address,
		LogoURL:            store.LogoURL,
		PrimaryColor:       store.PrimaryColor,
		Categories:         store.Categories,
		WhatsAppPhone:      store.WhatsAppPhone,
		WhatsAppInstanceID: store.WhatsAppInstanceID,
		Schedule:           store.Schedule,
		TrialEndsAt:        store.TrialEndsAt,
		TrialStatus:        store.TrialStatus.String(),
		DeliveryZones:      zones,
		CreatedAt:          store.CreatedAt,
		UpdatedAt:          store.UpdatedAt,
	}
}

// NewDeliveryZoneDTO maps a zone row into its API shape.
func NewDeliveryZoneDTO(zone *models.DeliveryZone) DeliveryZoneDTO {
	return DeliveryZoneDTO{
		ID:        zone.ID,
		Name:      zone.Name,
		Surcharge: zone.Surcharge,
	}
}
