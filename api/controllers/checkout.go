package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/api/validators"
	checkoutsvc "github.com/emilianovazquez/pedilo-backend/internal/checkout"
	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required"`
	CustomerPhone   string  `json:"customer_phone" validate:"required"`
	DeliveryMethod  string  `json:"delivery_method" validate:"required"`
	DeliveryAddress *string `json:"delivery_address,omitempty"`
	DeliveryZoneID  *string `json:"delivery_zone_id,omitempty" validate:"omitempty,uuid"`
	PaymentMethod   string  `json:"payment_method" validate:"required"`
	PaymentProofURL *string `json:"payment_proof_url,omitempty"`
}

func (req checkoutRequest) toSubmitInput(sessionID, slug string) (checkoutsvc.SubmitInput, error) {
	method, err := enums.ParseDeliveryMethod(strings.TrimSpace(req.DeliveryMethod))
	if err != nil {
		return checkoutsvc.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
	}

	payment, err := enums.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return checkoutsvc.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	var zoneID *uuid.UUID
	if req.DeliveryZoneID != nil && strings.TrimSpace(*req.DeliveryZoneID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*req.DeliveryZoneID))
		if err != nil {
			return checkoutsvc.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery zone id")
		}
		zoneID = &parsed
	}

	return checkoutsvc.SubmitInput{
		SessionID:       sessionID,
		StoreSlug:       slug,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		DeliveryMethod:  method,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryZoneID:  zoneID,
		PaymentMethod:   payment,
		PaymentProofURL: req.PaymentProofURL,
	}, nil
}

// SubmitCheckout turns the session cart into an order and hands back the
// WhatsApp link for the customer to confirm it.
func SubmitCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "store slug required"))
			return
		}

		sessionID := cartSession(r)
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toSubmitInput(sessionID, slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
