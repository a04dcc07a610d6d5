package coupons

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

// CouponRepository defines trial-coupon persistence.
type CouponRepository interface {
	WithTx(tx *gorm.DB) CouponRepository
	CreateCoupon(context.Context, *models.Coupon) (*models.Coupon, error)
	ListCoupons(context.Context) ([]models.Coupon, error)
	FindByCode(context.Context, string) (*models.Coupon, error)
	SetActive(ctx context.Context, couponID uuid.UUID, active bool) error
	ConsumeUse(ctx context.Context, couponID uuid.UUID) (bool, error)
	InsertRedemption(context.Context, *models.CouponRedemption) error
}

// Repository implements coupon persistence on GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) CouponRepository {
	return &Repository{db: tx}
}

// CreateCoupon inserts a new coupon. Codes are stored uppercase.
func (r *Repository) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// ListCoupons loads every coupon, newest first.
func (r *Repository) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindByCode loads a coupon by its case-insensitive code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// SetActive flips a coupon on or off.
func (r *Repository) SetActive(ctx context.Context, couponID uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", couponID).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeUse increments current_uses only while the use cap holds, so two
// concurrent redemptions cannot push a coupon past max_uses. Returns false
// when the cap was already reached.
func (r *Repository) ConsumeUse(ctx context.Context, couponID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", couponID).
		Update("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// InsertRedemption records one store's redemption. The unique
// (coupon_id, store_id) index rejects a second redemption by the same store.
func (r *Repository) InsertRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}
