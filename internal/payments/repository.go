package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// decimalSum carries an aggregate amount plus the row count behind it.
type decimalSum struct {
	Total decimal.Decimal `gorm:"column:total"`
	Count int             `gorm:"column:count"`
}

// Repository persists transactions and payouts.
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

// FindTransaction loads one transaction scoped to the merchant.
func (r *Repository) FindTransaction(ctx context.Context, merchantID, transactionID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		First(&txn, "id = ? AND merchant_id = ?", transactionID, merchantID).
		Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactions returns the merchant's transactions newest-first,
// optionally filtered by status.
func (r *Repository) ListTransactions(ctx context.Context, merchantID uuid.UUID, status *enums.TransactionStatus) ([]models.Transaction, error) {
	tx := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	var rows []models.Transaction
	err := tx.Find(&rows).Error
	return rows, err
}

// UpdateTransaction saves the transaction row.
func (r *Repository) UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Save(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// SumByStatus totals transaction amounts for the merchant in one status.
func (r *Repository) SumByStatus(ctx context.Context, merchantID uuid.UUID, status enums.TransactionStatus) (decimalSum, error) {
	var result decimalSum
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("merchant_id = ? AND status = ?", merchantID, status).
		Scan(&result).
		Error
	return result, err
}

// ListPayouts returns the merchant's payouts newest-first.
func (r *Repository) ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]models.Payout, error) {
	var rows []models.Payout
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindPayout loads one payout scoped to the merchant.
func (r *Repository) FindPayout(ctx context.Context, merchantID, payoutID uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.WithContext(ctx).
		First(&payout, "id = ? AND merchant_id = ?", payoutID, merchantID).
		Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// UpdatePayout saves the payout row.
func (r *Repository) UpdatePayout(ctx context.Context, payout *models.Payout) (*models.Payout, error) {
	if err := r.db.WithContext(ctx).Save(payout).Error; err != nil {
		return nil, err
	}
	return payout, nil
}
