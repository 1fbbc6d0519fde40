package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db"
	"github.com/saulrivera/medcart-backend/pkg/db/models"
	dbtypes "github.com/saulrivera/medcart-backend/pkg/db/types"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Service exposes merchant coupon management.
type Service interface {
	CreateCoupon(ctx context.Context, merchantID uuid.UUID, input CreateCouponInput) (*CouponDTO, error)
	UpdateCoupon(ctx context.Context, merchantID, couponID uuid.UUID, input UpdateCouponInput) (*CouponDTO, error)
	DeleteCoupon(ctx context.Context, merchantID, couponID uuid.UUID) error
	ToggleCoupon(ctx context.Context, merchantID, couponID uuid.UUID) (*CouponDTO, error)
	ListCoupons(ctx context.Context, merchantID uuid.UUID, statusFilter *enums.CouponStatus) (*CouponListResult, error)
	GetCoupon(ctx context.Context, merchantID, couponID uuid.UUID) (*CouponDTO, error)
}

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Code          string
	Description   *string
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	AppliesTo     enums.CouponScope
	ProductIDs    []uuid.UUID
	UsageLimit    *int
	ExpiryDate    time.Time
	IsActive      bool
}

// UpdateCouponInput holds optional mutation values for a coupon. Status is
// never accepted here; it is derived on read.
type UpdateCouponInput struct {
	Description   *string
	DiscountType  *enums.DiscountType
	DiscountValue *decimal.Decimal
	AppliesTo     *enums.CouponScope
	ProductIDs    *[]uuid.UUID
	UsageLimit    *int
	ExpiryDate    *time.Time
	IsActive      *bool
}

type clock func() time.Time

type service struct {
	repo     *Repository
	dbClient *db.Client
	now      clock
}

// NewService constructs the coupon service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, now: func() time.Time { return time.Now().UTC() }}, nil
}

// CreateCoupon validates and stores a new coupon. Codes are stored
// upper-cased and must be unique per merchant.
func (s *service) CreateCoupon(ctx context.Context, merchantID uuid.UUID, input CreateCouponInput) (*CouponDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required").
			WithField("code", "required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type").
			WithField("discount_type", "invalid value")
	}
	if err := validateDiscountValue(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}
	scope := input.AppliesTo
	if scope == "" {
		scope = enums.CouponScopeAll
	}
	if !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon scope").
			WithField("applies_to", "invalid value")
	}
	if scope == enums.CouponScopeSelected && len(input.ProductIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected scope requires products").
			WithField("product_ids", "required for selected scope")
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive").
			WithField("usage_limit", "must be positive")
	}

	if _, err := s.repo.FindByCode(ctx, merchantID, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists").
			WithField("code", "already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code uniqueness")
	}

	coupon := &models.Coupon{
		MerchantID:    merchantID,
		Code:          code,
		Description:   input.Description,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		AppliesTo:     scope,
		UsageLimit:    input.UsageLimit,
		ExpiryDate:    input.ExpiryDate,
		IsActive:      input.IsActive,
	}
	if scope == enums.CouponScopeSelected {
		coupon.ProductIDs = dbtypes.UUIDArray(append([]uuid.UUID(nil), input.ProductIDs...))
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_coupons_merchant_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists").
				WithField("code", "already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert coupon")
	}
	return NewCouponDTO(created, s.now()), nil
}

// UpdateCoupon applies the optional fields to an existing coupon.
func (s *service) UpdateCoupon(ctx context.Context, merchantID, couponID uuid.UUID, input UpdateCouponInput) (*CouponDTO, error) {
	coupon, err := s.load(ctx, merchantID, couponID)
	if err != nil {
		return nil, err
	}

	discountType := coupon.DiscountType
	if input.DiscountType != nil {
		if !input.DiscountType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type").
				WithField("discount_type", "invalid value")
		}
		discountType = *input.DiscountType
	}
	discountValue := coupon.DiscountValue
	if input.DiscountValue != nil {
		discountValue = *input.DiscountValue
	}
	if err := validateDiscountValue(discountType, discountValue); err != nil {
		return nil, err
	}

	scope := coupon.AppliesTo
	if input.AppliesTo != nil {
		if !input.AppliesTo.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon scope").
				WithField("applies_to", "invalid value")
		}
		scope = *input.AppliesTo
	}
	productIDs := []uuid.UUID(coupon.ProductIDs)
	if input.ProductIDs != nil {
		productIDs = *input.ProductIDs
	}
	if scope == enums.CouponScopeSelected && len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected scope requires products").
			WithField("product_ids", "required for selected scope")
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive").
			WithField("usage_limit", "must be positive")
	}

	coupon.DiscountType = discountType
	coupon.DiscountValue = discountValue
	coupon.AppliesTo = scope
	if scope == enums.CouponScopeSelected {
		coupon.ProductIDs = dbtypes.UUIDArray(append([]uuid.UUID(nil), productIDs...))
	} else {
		coupon.ProductIDs = nil
	}
	if input.Description != nil {
		coupon.Description = input.Description
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = input.UsageLimit
	}
	if input.ExpiryDate != nil {
		coupon.ExpiryDate = *input.ExpiryDate
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update coupon")
	}
	return NewCouponDTO(updated, s.now()), nil
}

// DeleteCoupon removes the coupon.
func (s *service) DeleteCoupon(ctx context.Context, merchantID, couponID uuid.UUID) error {
	if _, err := s.load(ctx, merchantID, couponID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, merchantID, couponID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete coupon")
	}
	return nil
}

// ToggleCoupon flips the manual active flag. The flip never resurrects an
// expired or limit-reached coupon; the derived status still wins.
func (s *service) ToggleCoupon(ctx context.Context, merchantID, couponID uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.load(ctx, merchantID, couponID)
	if err != nil {
		return nil, err
	}
	coupon.IsActive = !coupon.IsActive
	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle coupon")
	}
	return NewCouponDTO(updated, s.now()), nil
}

// ListCoupons returns the merchant's coupons, optionally filtered by the
// derived status.
func (s *service) ListCoupons(ctx context.Context, merchantID uuid.UUID, statusFilter *enums.CouponStatus) (*CouponListResult, error) {
	rows, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	now := s.now()
	result := &CouponListResult{Coupons: make([]CouponDTO, 0, len(rows))}
	for i := range rows {
		if !statusFilterMatches(&rows[i], statusFilter, now) {
			continue
		}
		result.Coupons = append(result.Coupons, *NewCouponDTO(&rows[i], now))
	}
	return result, nil
}

// GetCoupon returns one coupon with its derived status.
func (s *service) GetCoupon(ctx context.Context, merchantID, couponID uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.load(ctx, merchantID, couponID)
	if err != nil {
		return nil, err
	}
	return NewCouponDTO(coupon, s.now()), nil
}

func (s *service) load(ctx context.Context, merchantID, couponID uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, merchantID, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

func validateDiscountValue(discountType enums.DiscountType, value decimal.Decimal) error {
	switch discountType {
	case enums.DiscountTypePercentage:
		if !value.IsPositive() || value.GreaterThan(hundred) {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be in (0, 100]").
				WithField("discount_value", "must be in (0, 100]")
		}
	case enums.DiscountTypeFlat:
		if !value.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "flat discount must be positive").
				WithField("discount_value", "must be positive")
		}
	}
	return nil
}
