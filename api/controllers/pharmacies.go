package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/api/responses"
	"github.com/saulrivera/medcart-backend/api/validators"
	"github.com/saulrivera/medcart-backend/internal/routing"
	"github.com/saulrivera/medcart-backend/pkg/logger"
	"github.com/saulrivera/medcart-backend/pkg/types"
)

// PharmacyList returns the pharmacies visible to the merchant: the platform
// network plus the merchant's own quick-added entries.
func PharmacyList(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pharmacies, err := svc.ListPharmacies(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pharmacies)
	}
}

type quickAddPharmacyRequest struct {
	Name            string                 `json:"name" validate:"required"`
	NPI             string                 `json:"npi" validate:"required"`
	StateLicense    string                 `json:"state_license" validate:"required"`
	Contact         pharmacyContactRequest `json:"contact"`
	StatesAvailable []string               `json:"states_available" validate:"required,min=1,dive,required"`
}

type pharmacyContactRequest struct {
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// PharmacyQuickAdd registers a merchant-owned pharmacy.
func PharmacyQuickAdd(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quickAddPharmacyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pharmacy, err := svc.QuickAddPharmacy(r.Context(), merchantID, routing.QuickAddInput{
			Name:         payload.Name,
			NPI:          payload.NPI,
			StateLicense: payload.StateLicense,
			Contact: types.Contact{
				Phone:      payload.Contact.Phone,
				Email:      payload.Contact.Email,
				Address:    payload.Contact.Address,
				City:       payload.Contact.City,
				State:      payload.Contact.State,
				PostalCode: payload.Contact.PostalCode,
			},
			StatesAvailable: payload.StatesAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pharmacy)
	}
}

type assignPharmacyRequest struct {
	State     string    `json:"state" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// PharmacyAssign claims a (state, product) pair for one of the merchant's
// own pharmacies. The newest assignment wins; displacing an earlier claim
// surfaces a collision warning rather than an error.
func PharmacyAssign(svc routing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pharmacyID, err := uuidParam(r, "pharmacyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignPharmacyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.AssignPharmacy(r.Context(), merchantID, routing.AssignInput{
			PharmacyID: pharmacyID,
			State:      payload.State,
			ProductID:  payload.ProductID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}
