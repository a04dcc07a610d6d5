package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/api/validators"
	storesvc "github.com/emilianovazquez/pedilo-backend/internal/stores"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// AdminGetStore returns the owner's store profile.
func AdminGetStore(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.GetStore(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

type updateStoreRequest struct {
	Name          *string         `json:"name,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Address       *string         `json:"address,omitempty"`
	LogoURL       *string         `json:"logo_url,omitempty"`
	PrimaryColor  *string         `json:"primary_color,omitempty"`
	Categories    *[]string       `json:"categories,omitempty"`
	WhatsAppPhone *string         `json:"whatsapp_phone,omitempty"`
	Schedule      *types.Schedule `json:"schedule,omitempty"`
}

// AdminUpdateStore applies a partial settings update. The slug never
// changes after registration.
func AdminUpdateStore(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateSettings(r.Context(), storeID, storesvc.UpdateSettingsInput{
			Name:          payload.Name,
			Phone:         payload.Phone,
			Address:       payload.Address,
			LogoURL:       payload.LogoURL,
			PrimaryColor:  payload.PrimaryColor,
			Categories:    payload.Categories,
			WhatsAppPhone: payload.WhatsAppPhone,
			Schedule:      payload.Schedule,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

type zoneRequest struct {
	Name      string          `json:"name" validate:"required"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// AdminCreateZone adds a delivery zone to the store.
func AdminCreateZone(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload zoneRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.CreateZone(r.Context(), storeID, storesvc.ZoneInput{
			Name:      strings.TrimSpace(payload.Name),
			Surcharge: payload.Surcharge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, zone)
	}
}

// AdminUpdateZone replaces a delivery zone's name and surcharge.
func AdminUpdateZone(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zoneID, err := pathUUID(chi.URLParam(r, "zoneID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload zoneRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zone, err := svc.UpdateZone(r.Context(), storeID, zoneID, storesvc.ZoneInput{
			Name:      strings.TrimSpace(payload.Name),
			Surcharge: payload.Surcharge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, zone)
	}
}

// AdminDeleteZone removes a delivery zone.
func AdminDeleteZone(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		zoneID, err := pathUUID(chi.URLParam(r, "zoneID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteZone(r.Context(), storeID, zoneID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
