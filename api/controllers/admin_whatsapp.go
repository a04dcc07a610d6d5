package controllers

import (
	"net/http"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	whatsappsvc "github.com/emilianovazquez/pedilo-backend/internal/whatsapp"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

// AdminConnectWhatsApp provisions a bridge instance for the store and
// returns the QR code the owner scans to link their phone.
func AdminConnectWhatsApp(svc whatsappsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		instance, err := svc.Connect(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, instance)
	}
}

// AdminDisconnectWhatsApp tears down the store's bridge instance.
func AdminDisconnectWhatsApp(svc whatsappsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Disconnect(r.Context(), storeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "disconnected"})
	}
}

// AdminWhatsAppStatus reports the bridge session state.
func AdminWhatsAppStatus(svc whatsappsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Status(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}
