package coupons

import (
	"time"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Status derives the coupon's effective status at the given instant. The
// precedence is fixed: expired beats limit-reached beats the manual toggle.
// A coupon toggled active after its expiry date still reads as expired.
func Status(coupon *models.Coupon, now time.Time) enums.CouponStatus {
	if now.After(coupon.ExpiryDate) {
		return enums.CouponStatusExpired
	}
	if coupon.UsageLimit != nil && coupon.CurrentUsage >= *coupon.UsageLimit {
		return enums.CouponStatusLimitReached
	}
	if !coupon.IsActive {
		return enums.CouponStatusInactive
	}
	return enums.CouponStatusActive
}
