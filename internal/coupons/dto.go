package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// CouponDTO is the coupon payload returned to merchant clients. Status is
// derived at read time.
type CouponDTO struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Description   *string         `json:"description,omitempty"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	AppliesTo     string          `json:"applies_to"`
	ProductIDs    []uuid.UUID     `json:"product_ids,omitempty"`
	UsageLimit    *int            `json:"usage_limit,omitempty"`
	CurrentUsage  int             `json:"current_usage"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	IsActive      bool            `json:"is_active"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CouponListResult carries the coupon collection for a merchant.
type CouponListResult struct {
	Coupons []CouponDTO `json:"coupons"`
}

// NewCouponDTO builds the payload with the status derived at now.
func NewCouponDTO(coupon *models.Coupon, now time.Time) *CouponDTO {
	return &CouponDTO{
		ID:            coupon.ID,
		Code:          coupon.Code,
		Description:   coupon.Description,
		DiscountType:  string(coupon.DiscountType),
		DiscountValue: coupon.DiscountValue,
		AppliesTo:     string(coupon.AppliesTo),
		ProductIDs:    append([]uuid.UUID{}, coupon.ProductIDs...),
		UsageLimit:    coupon.UsageLimit,
		CurrentUsage:  coupon.CurrentUsage,
		ExpiryDate:    coupon.ExpiryDate,
		IsActive:      coupon.IsActive,
		Status:        string(Status(coupon, now)),
		CreatedAt:     coupon.CreatedAt,
		UpdatedAt:     coupon.UpdatedAt,
	}
}

// statusFilterMatches reports whether the coupon's derived status matches
// the requested filter.
func statusFilterMatches(coupon *models.Coupon, filter *enums.CouponStatus, now time.Time) bool {
	if filter == nil {
		return true
	}
	return Status(coupon, now) == *filter
}
