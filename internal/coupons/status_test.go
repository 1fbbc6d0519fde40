package coupons

import (
	"testing"
	"time"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

func TestStatusPrecedence(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	limit := 10

	cases := []struct {
		name   string
		coupon models.Coupon
		want   enums.CouponStatus
	}{
		{
			name:   "activeCoupon",
			coupon: models.Coupon{ExpiryDate: future, IsActive: true},
			want:   enums.CouponStatusActive,
		},
		{
			name:   "manuallyInactive",
			coupon: models.Coupon{ExpiryDate: future, IsActive: false},
			want:   enums.CouponStatusInactive,
		},
		{
			name:   "limitReached",
			coupon: models.Coupon{ExpiryDate: future, IsActive: true, UsageLimit: &limit, CurrentUsage: 10},
			want:   enums.CouponStatusLimitReached,
		},
		{
			name:   "limitBeatsManualInactive",
			coupon: models.Coupon{ExpiryDate: future, IsActive: false, UsageLimit: &limit, CurrentUsage: 12},
			want:   enums.CouponStatusLimitReached,
		},
		{
			name:   "expiredBeatsEverything",
			coupon: models.Coupon{ExpiryDate: past, IsActive: true, UsageLimit: &limit, CurrentUsage: 12},
			want:   enums.CouponStatusExpired,
		},
		{
			name:   "expiredEvenWhenManuallyActive",
			coupon: models.Coupon{ExpiryDate: past, IsActive: true},
			want:   enums.CouponStatusExpired,
		},
		{
			name:   "underLimitStillActive",
			coupon: models.Coupon{ExpiryDate: future, IsActive: true, UsageLimit: &limit, CurrentUsage: 9},
			want:   enums.CouponStatusActive,
		},
		{
			name:   "noLimitNeverLimitReached",
			coupon: models.Coupon{ExpiryDate: future, IsActive: true, CurrentUsage: 1000000},
			want:   enums.CouponStatusActive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Status(&tc.coupon, now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestStatusExpiryBoundary(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	coupon := models.Coupon{ExpiryDate: expiry, IsActive: true}

	if got := Status(&coupon, expiry); got != enums.CouponStatusActive {
		t.Fatalf("coupon should be active at the exact expiry instant, got %s", got)
	}
	if got := Status(&coupon, expiry.Add(time.Nanosecond)); got != enums.CouponStatusExpired {
		t.Fatalf("coupon should expire after the expiry instant, got %s", got)
	}
}
