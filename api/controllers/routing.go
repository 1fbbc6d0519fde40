package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/api/responses"
	"github.com/saulrivera/medcart-backend/api/validators"
	"github.com/saulrivera/medcart-backend/internal/routing"
	"github.com/saulrivera/medcart-backend/pkg/logger"
)

// RoutingTable resolves the effective pharmacy for every supported state.
func RoutingTable(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ResolveAll(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// RoutingState resolves the effective pharmacy for a single state.
func RoutingState(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.ResolveState(r.Context(), merchantID, chi.URLParam(r, "state"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

type selectPharmacyRequest struct {
	PharmacyID      uuid.UUID `json:"pharmacy_id" validate:"required"`
	ExpectedVersion *int      `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// RoutingSelect pins a pharmacy for the state, overriding the default
// cheapest-eligible routing.
func RoutingSelect(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectPharmacyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Select(r.Context(), merchantID, routing.SelectInput{
			State:           chi.URLParam(r, "state"),
			PharmacyID:      payload.PharmacyID,
			ExpectedVersion: payload.ExpectedVersion,
			Actor:           actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

type resetRoutingRequest struct {
	ExpectedVersion *int `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// RoutingReset clears the pinned selection so the state falls back to
// cheapest-eligible routing.
func RoutingReset(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resetRoutingRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		row, err := svc.Reset(r.Context(), merchantID, chi.URLParam(r, "state"), payload.ExpectedVersion)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
