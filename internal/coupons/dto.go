package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

// CouponDTO is the operator-facing coupon payload.
type CouponDTO struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	DaysExtension int        `json:"days_extension"`
	MaxUses       *int       `json:"max_uses,omitempty"`
	CurrentUses   int        `json:"current_uses"`
	Active        bool       `json:"active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RedemptionDTO is returned to the store after a successful redemption.
type RedemptionDTO struct {
	CouponCode    string    `json:"coupon_code"`
	DaysExtension int       `json:"days_extension"`
	TrialEndsAt   time.Time `json:"trial_ends_at"`
}

// NewCouponDTO maps a coupon row into its API shape.
func NewCouponDTO(coupon *models.Coupon) CouponDTO {
	return CouponDTO{
		ID:            coupon.ID,
		Code:          coupon.Code,
		DaysExtension: coupon.DaysExtension,
		MaxUses:       coupon.MaxUses,
		CurrentUses:   coupon.CurrentUses,
		Active:        coupon.Active,
		ExpiresAt:     coupon.ExpiresAt,
		CreatedAt:     coupon.CreatedAt,
	}
}
