package coupons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
)

// Repository persists merchant coupons.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads one coupon scoped to the merchant.
func (r *Repository) FindByID(ctx context.Context, merchantID, couponID uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "id = ? AND merchant_id = ?", couponID, merchantID).
		Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByCode loads a coupon by its upper-cased code.
func (r *Repository) FindByCode(ctx context.Context, merchantID uuid.UUID, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "merchant_id = ? AND code = ?", merchantID, code).
		Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListByMerchant returns all of the merchant's coupons newest-first.
func (r *Repository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Coupon, error) {
	var rows []models.Coupon
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a coupon row.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update saves the coupon row.
func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Save(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes the coupon.
func (r *Repository) Delete(ctx context.Context, merchantID, couponID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND merchant_id = ?", couponID, merchantID).
		Delete(&models.Coupon{}).
		Error
}
