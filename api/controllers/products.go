package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/api/responses"
	"github.com/saulrivera/medcart-backend/api/validators"
	"github.com/saulrivera/medcart-backend/internal/catalog"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
	"github.com/saulrivera/medcart-backend/pkg/logger"
	"github.com/saulrivera/medcart-backend/pkg/pagination"
)

// ProductList returns the merchant's resolved product catalog.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListProductsInput{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 200),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}

		result, err := svc.ListProducts(r.Context(), merchantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductDetail returns a single resolved product for the merchant.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), merchantID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type editProductRequest struct {
	Name            *string                    `json:"name,omitempty"`
	Description     *string                    `json:"description,omitempty"`
	Price           *decimal.Decimal           `json:"price,omitempty"`
	Status          *string                    `json:"status,omitempty"`
	Benefits        *[]string                  `json:"benefits,omitempty"`
	SideEffects     *[]string                  `json:"side_effects,omitempty"`
	Images          *[]string                  `json:"images,omitempty"`
	DosageOptions   *[]editDosageOptionRequest `json:"dosage_options,omitempty" validate:"omitempty,dive"`
	ExpectedVersion *int                       `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

type editDosageOptionRequest struct {
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	IsDefault bool            `json:"is_default"`
}

func (req editProductRequest) toEditInput(actor enums.Actor) (catalog.EditInput, error) {
	input := catalog.EditInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Benefits:        req.Benefits,
		SideEffects:     req.SideEffects,
		Images:          req.Images,
		ExpectedVersion: req.ExpectedVersion,
		Actor:           actor,
	}

	if req.Status != nil {
		status, err := enums.ParseProductStatus(strings.TrimSpace(*req.Status))
		if err != nil {
			return catalog.EditInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}

	if req.DosageOptions != nil {
		dosages := make([]catalog.DosageEditInput, 0, len(*req.DosageOptions))
		for _, d := range *req.DosageOptions {
			dosages = append(dosages, catalog.DosageEditInput{
				Name:      d.Name,
				Price:     d.Price,
				IsDefault: d.IsDefault,
			})
		}
		input.DosageOptions = &dosages
	}

	return input, nil
}

// ProductEdit applies a merchant override delta on top of the admin base
// product. Fields absent from the body stay untouched.
func ProductEdit(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload editProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toEditInput(actorFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.ApplyEdit(r.Context(), merchantID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type resetProductRequest struct {
	ExpectedVersion *int `json:"expected_version,omitempty" validate:"omitempty,min=0"`
}

// ProductReset discards the merchant override and returns the admin-authored
// view of the product.
func ProductReset(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resetProductRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		product, err := svc.ResetToDefault(r.Context(), merchantID, productID, payload.ExpectedVersion)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
