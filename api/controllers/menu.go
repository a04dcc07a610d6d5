package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/internal/availability"
	"github.com/emilianovazquez/pedilo-backend/internal/catalog"
	"github.com/emilianovazquez/pedilo-backend/internal/stores"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

// PublicMenu serves the storefront menu for a store slug, with the day's
// discounts already applied.
func PublicMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "store slug required"))
			return
		}

		menu, err := svc.Menu(r.Context(), slug, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, menu)
	}
}

type menuStatusResponse struct {
	Slug   string `json:"slug"`
	IsOpen bool   `json:"is_open"`
}

// PublicMenuStatus reports whether a store is currently taking orders.
func PublicMenuStatus(storeRepo stores.StoreRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "store slug required"))
			return
		}

		store, err := storeRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found"))
			return
		}

		responses.WriteSuccess(w, menuStatusResponse{
			Slug:   store.Slug,
			IsOpen: availability.IsOpen(store.Schedule, time.Now()),
		})
	}
}
