package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a trial-extension code created by the operator. MaxUses of nil
// means unlimited redemptions; CurrentUses never exceeds MaxUses when set.
type Coupon struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string     `gorm:"column:code;not null;uniqueIndex"`
	DaysExtension int        `gorm:"column:days_extension;not null;default:30"`
	MaxUses       *int       `gorm:"column:max_uses"`
	CurrentUses   int        `gorm:"column:current_uses;not null;default:0"`
	Active        bool       `gorm:"column:active;not null;default:true"`
	ExpiresAt     *time.Time `gorm:"column:expires_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
