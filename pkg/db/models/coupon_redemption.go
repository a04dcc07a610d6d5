package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponRedemption records one store's use of a coupon. The unique
// (coupon_id, store_id) pair is what enforces one redemption per store, even
// when two redemptions race.
type CouponRedemption struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID   uuid.UUID `gorm:"column:coupon_id;type:uuid;not null;uniqueIndex:idx_redemptions_coupon_store"`
	StoreID    uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_redemptions_coupon_store"`
	RedeemedAt time.Time `gorm:"column:redeemed_at;autoCreateTime"`
}
