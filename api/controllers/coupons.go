package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/api/responses"
	"github.com/saulrivera/medcart-backend/api/validators"
	"github.com/saulrivera/medcart-backend/internal/coupons"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
	"github.com/saulrivera/medcart-backend/pkg/logger"
)

// CouponList returns the merchant's coupons with derived lifecycle status,
// optionally filtered by that status.
func CouponList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var statusFilter *enums.CouponStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := parseCouponStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			statusFilter = &status
		}

		result, err := svc.ListCoupons(r.Context(), merchantID, statusFilter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CouponDetail returns one coupon.
func CouponDetail(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := uuidParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.GetCoupon(r.Context(), merchantID, couponID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

type createCouponRequest struct {
	Code          string          `json:"code" validate:"required"`
	Description   *string         `json:"description,omitempty"`
	DiscountType  string          `json:"discount_type" validate:"required"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	AppliesTo     string          `json:"applies_to,omitempty"`
	ProductIDs    []uuid.UUID     `json:"product_ids,omitempty"`
	UsageLimit    *int            `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	ExpiryDate    time.Time       `json:"expiry_date" validate:"required"`
	IsActive      *bool           `json:"is_active,omitempty"`
}

// CouponCreate registers a new coupon for the merchant.
func CouponCreate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(strings.TrimSpace(payload.DiscountType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}

		input := coupons.CreateCouponInput{
			Code:          payload.Code,
			Description:   payload.Description,
			DiscountType:  discountType,
			DiscountValue: payload.DiscountValue,
			ProductIDs:    payload.ProductIDs,
			UsageLimit:    payload.UsageLimit,
			ExpiryDate:    payload.ExpiryDate,
			IsActive:      true,
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}
		if raw := strings.TrimSpace(payload.AppliesTo); raw != "" {
			scope, err := enums.ParseCouponScope(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scope"))
				return
			}
			input.AppliesTo = scope
		}

		coupon, err := svc.CreateCoupon(r.Context(), merchantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

type updateCouponRequest struct {
	Description   *string          `json:"description,omitempty"`
	DiscountType  *string          `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
	AppliesTo     *string          `json:"applies_to,omitempty"`
	ProductIDs    *[]uuid.UUID     `json:"product_ids,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// CouponUpdate edits an existing coupon. The code itself is immutable.
func CouponUpdate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := uuidParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.UpdateCouponInput{
			Description:   payload.Description,
			DiscountValue: payload.DiscountValue,
			ProductIDs:    payload.ProductIDs,
			UsageLimit:    payload.UsageLimit,
			ExpiryDate:    payload.ExpiryDate,
			IsActive:      payload.IsActive,
		}
		if payload.DiscountType != nil {
			discountType, err := enums.ParseDiscountType(strings.TrimSpace(*payload.DiscountType))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
				return
			}
			input.DiscountType = &discountType
		}
		if payload.AppliesTo != nil {
			scope, err := enums.ParseCouponScope(strings.TrimSpace(*payload.AppliesTo))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scope"))
				return
			}
			input.AppliesTo = &scope
		}

		coupon, err := svc.UpdateCoupon(r.Context(), merchantID, couponID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

// CouponDelete removes a coupon.
func CouponDelete(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := uuidParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCoupon(r.Context(), merchantID, couponID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// CouponToggle flips the manual active switch. Derived expiry and usage
// limit checks still take precedence over the result.
func CouponToggle(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := uuidParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.ToggleCoupon(r.Context(), merchantID, couponID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

func parseCouponStatus(raw string) (enums.CouponStatus, error) {
	switch enums.CouponStatus(strings.ToLower(raw)) {
	case enums.CouponStatusActive:
		return enums.CouponStatusActive, nil
	case enums.CouponStatusInactive:
		return enums.CouponStatusInactive, nil
	case enums.CouponStatusExpired:
		return enums.CouponStatusExpired, nil
	case enums.CouponStatusLimitReached:
		return enums.CouponStatusLimitReached, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon status").
		WithDetails(map[string]any{"status": raw})
}
