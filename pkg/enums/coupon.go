package enums

import "fmt"

// DiscountType distinguishes percentage discounts from flat amounts.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFlat,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// CouponScope controls which products a coupon applies to.
type CouponScope string

const (
	CouponScopeAll      CouponScope = "all"
	CouponScopeSelected CouponScope = "selected"
)

var validCouponScopes = []CouponScope{
	CouponScopeAll,
	CouponScopeSelected,
}

// String implements fmt.Stringer.
func (s CouponScope) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s CouponScope) IsValid() bool {
	for _, candidate := range validCouponScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCouponScope converts raw input into a CouponScope.
func ParseCouponScope(value string) (CouponScope, error) {
	for _, candidate := range validCouponScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon scope %q", value)
}

// CouponStatus is the derived lifecycle state shown for a coupon. It is never
// stored; expiry and usage-limit checks take precedence over the manual
// active toggle.
type CouponStatus string

const (
	CouponStatusActive       CouponStatus = "active"
	CouponStatusInactive     CouponStatus = "inactive"
	CouponStatusExpired      CouponStatus = "expired"
	CouponStatusLimitReached CouponStatus = "limit_reached"
)

// String implements fmt.Stringer.
func (s CouponStatus) String() string {
	return string(s)
}
