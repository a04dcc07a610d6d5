package controllers

import (
	"net/http"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	"github.com/emilianovazquez/pedilo-backend/internal/customers"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

// AdminListCustomers returns everyone who has ordered from the store.
func AdminListCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := ownerStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListCustomers(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
