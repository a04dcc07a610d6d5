package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/api/validators"
	cartsvc "github.com/emilianovazquez/pedilo-backend/internal/cart"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

// CartSessionHeader carries the anonymous cart session between requests.
const CartSessionHeader = "X-Cart-Session"

func cartSession(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(CartSessionHeader))
}

// GetCart returns the current session cart. A missing session yields an
// empty cart rather than an error.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := cartSession(r)
		if sessionID == "" {
			responses.WriteSuccess(w, cartsvc.EmptyCartDTO())
			return
		}

		cart, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(CartSessionHeader, sessionID)
		responses.WriteSuccess(w, cart)
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// AddCartItem adds one unit of a product to the session cart, minting a new
// session when the caller has none yet.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		sessionID := cartSession(r)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		cart, err := svc.AddItem(r.Context(), sessionID, productID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(CartSessionHeader, sessionID)
		responses.WriteSuccess(w, cart)
	}
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta" validate:"required"`
}

// UpdateCartItem adjusts a line's quantity by a signed delta. Lines that
// reach zero are removed.
func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := cartSession(r)
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session required"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), sessionID, productID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(CartSessionHeader, sessionID)
		responses.WriteSuccess(w, cart)
	}
}

// ClearCart drops the session cart.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := cartSession(r)
		if sessionID == "" {
			responses.WriteSuccess(w, cartsvc.EmptyCartDTO())
			return
		}

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartsvc.EmptyCartDTO())
	}
}
