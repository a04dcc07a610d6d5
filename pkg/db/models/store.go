package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// Store represents the canonical tenant model. The slug is the public
// storefront path segment and never changes after registration.
type Store struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug               string            `gorm:"column:slug;not null;uniqueIndex"`
	Name               string            `gorm:"column:name;not null"`
	OwnerEmail         string            `gorm:"column:owner_email;not null"`
	Phone              *string           `gorm:"column:phone"`
	Address            *string           `gorm:"column:address"`
	LogoURL            *string           `gorm:"column:logo_url"`
	PrimaryColor       *string           `gorm:"column:primary_color"`
	Categories         pq.StringArray    `gorm:"column:categories;type:text[]"`
	WhatsAppPhone      *string           `gorm:"column:whatsapp_phone"`
	WhatsAppInstanceID *string           `gorm:"column:whatsapp_instance_id"`
	Schedule           *types.Schedule   `gorm:"column:schedule;type:jsonb;serializer:json"`
	TrialEndsAt        time.Time         `gorm:"column:trial_ends_at;not null"`
	TrialStatus        enums.TrialStatus `gorm:"column:trial_status;not null;default:'active'"`
	DeliveryZones      []DeliveryZone    `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
