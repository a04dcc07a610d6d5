package controllers

import (
	"net/http"
	"strings"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/api/validators"
	registrationsvc "github.com/emilianovazquez/pedilo-backend/internal/registration"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

type registerRequest struct {
	StoreName  string  `json:"store_name" validate:"required"`
	OwnerEmail string  `json:"owner_email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty"`
	CouponCode *string `json:"coupon_code,omitempty"`
}

// RegisterStore signs up a new store, starts its trial and returns the
// payment link for the first subscription charge.
func RegisterStore(svc registrationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), registrationsvc.RegisterInput{
			StoreName:  strings.TrimSpace(payload.StoreName),
			OwnerEmail: strings.TrimSpace(payload.OwnerEmail),
			Phone:      payload.Phone,
			CouponCode: payload.CouponCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
