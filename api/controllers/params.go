package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/api/middleware"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

// merchantFromRequest resolves the merchant identity injected by the
// MerchantContext middleware.
func merchantFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.MerchantIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id")
	}
	return id, nil
}

func actorFromRequest(r *http.Request) enums.Actor {
	if middleware.ActorFromContext(r.Context()) == enums.ActorAdmin.String() {
		return enums.ActorAdmin
	}
	return enums.ActorMerchant
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]any{"param": name})
	}
	return id, nil
}
