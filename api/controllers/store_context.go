package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/api/middleware"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

// ownerStoreID resolves the authenticated owner's store from the request
// context. Admin handlers are always scoped to this single store.
func ownerStoreID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return id, nil
}

// pathUUID parses a UUID route parameter.
func pathUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier")
	}
	return id, nil
}
