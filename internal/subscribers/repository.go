package subscribers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Repository persists subscribers.
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

// FindByID loads one subscriber scoped to the merchant.
func (r *Repository) FindByID(ctx context.Context, merchantID, subscriberID uuid.UUID) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.WithContext(ctx).
		First(&subscriber, "id = ? AND merchant_id = ?", subscriberID, merchantID).
		Error
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// List returns the merchant's subscribers, optionally filtered by account
// status and a name/email search term.
func (r *Repository) List(ctx context.Context, merchantID uuid.UUID, status *enums.AccountStatus, search string) ([]models.Subscriber, error) {
	tx := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("joined_at DESC")
	if status != nil {
		tx = tx.Where("account_status = ?", *status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	var rows []models.Subscriber
	err := tx.Find(&rows).Error
	return rows, err
}

// Update saves the subscriber row.
func (r *Repository) Update(ctx context.Context, subscriber *models.Subscriber) (*models.Subscriber, error) {
	if err := r.db.WithContext(ctx).Save(subscriber).Error; err != nil {
		return nil, err
	}
	return subscriber, nil
}
