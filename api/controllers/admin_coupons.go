package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/api/validators"
	couponsvc "github.com/emilianovazquez/pedilo-backend/internal/coupons"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// AdminApplyCoupon redeems a coupon against the owner's trial.
func AdminApplyCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		redemption, err := svc.Apply(r.Context(), storeID, strings.TrimSpace(payload.Code))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, redemption)
	}
}

type createCouponRequest struct {
	Code          string     `json:"code" validate:"required"`
	DaysExtension int        `json:"days_extension" validate:"required,min=1"`
	MaxUses       *int       `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// OperatorCreateCoupon mints a new coupon code.
func OperatorCreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.CreateCoupon(r.Context(), couponsvc.CreateCouponInput{
			Code:          strings.TrimSpace(payload.Code),
			DaysExtension: payload.DaysExtension,
			MaxUses:       payload.MaxUses,
			ExpiresAt:     payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// OperatorListCoupons lists every coupon with its remaining uses.
func OperatorListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := svc.ListCoupons(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupons)
	}
}

type setCouponActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// OperatorSetCouponActive toggles a coupon on or off.
func OperatorSetCouponActive(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		couponID, err := pathUUID(chi.URLParam(r, "couponID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCouponActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Active == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "active flag required"))
			return
		}

		if err := svc.SetActive(r.Context(), couponID, *payload.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"active": *payload.Active})
	}
}
