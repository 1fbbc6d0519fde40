package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  merchant_id TEXT NOT NULL,
  subscriber_id TEXT,
  product_name TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  refund_reason TEXT,
  refunded_amount NUMERIC,
  refunded_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	payouts := `
CREATE TABLE IF NOT EXISTS payouts (
  id TEXT PRIMARY KEY,
  merchant_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  transaction_count INTEGER NOT NULL DEFAULT 0,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'processing',
  processed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(transactions).Error)
	require.NoError(t, db.Exec(payouts).Error)
	return db
}

func seedTransaction(t *testing.T, db *gorm.DB, merchantID uuid.UUID, amount string, status enums.TransactionStatus) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:          uuid.New(),
		MerchantID:  merchantID,
		ProductName: "Semaglutide 0.5mg",
		Amount:      decimal.RequireFromString(amount),
		Status:      status,
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

func TestRepositoryTransactionScoping(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchantID := uuid.New()
	otherMerchant := uuid.New()

	completed := seedTransaction(t, db, merchantID, "49.99", enums.TransactionStatusCompleted)
	seedTransaction(t, db, merchantID, "20.01", enums.TransactionStatusPending)
	seedTransaction(t, db, otherMerchant, "99.00", enums.TransactionStatusCompleted)

	all, err := repo.ListTransactions(ctx, merchantID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := enums.TransactionStatusCompleted
	filtered, err := repo.ListTransactions(ctx, merchantID, &status)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, completed.ID, filtered[0].ID)

	_, err = repo.FindTransaction(ctx, otherMerchant, completed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateTransactionPersistsRefundFields(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchantID := uuid.New()
	txn := seedTransaction(t, db, merchantID, "49.99", enums.TransactionStatusCompleted)

	now := time.Now().UTC()
	reason := "duplicate charge"
	refunded := decimal.RequireFromString("49.99")
	txn.Status = enums.TransactionStatusRefunded
	txn.RefundReason = &reason
	txn.RefundedAmount = &refunded
	txn.RefundedAt = &now

	_, err := repo.UpdateTransaction(ctx, txn)
	require.NoError(t, err)

	reloaded, err := repo.FindTransaction(ctx, merchantID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionStatusRefunded, reloaded.Status)
	require.NotNil(t, reloaded.RefundReason)
	assert.Equal(t, reason, *reloaded.RefundReason)
	require.NotNil(t, reloaded.RefundedAmount)
	assert.True(t, reloaded.RefundedAmount.Equal(refunded))
	assert.NotNil(t, reloaded.RefundedAt)
}

func TestRepositorySumByStatus(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchantID := uuid.New()
	seedTransaction(t, db, merchantID, "40.00", enums.TransactionStatusPending)
	seedTransaction(t, db, merchantID, "60.00", enums.TransactionStatusPending)
	seedTransaction(t, db, merchantID, "15.00", enums.TransactionStatusCompleted)
	seedTransaction(t, db, uuid.New(), "33.00", enums.TransactionStatusPending)

	sum, err := repo.SumByStatus(ctx, merchantID, enums.TransactionStatusPending)
	require.NoError(t, err)
	assert.True(t, sum.Total.Equal(decimal.RequireFromString("100")), "got %s", sum.Total)
	assert.Equal(t, 2, sum.Count)

	empty, err := repo.SumByStatus(ctx, merchantID, enums.TransactionStatusRefunded)
	require.NoError(t, err)
	assert.True(t, empty.Total.IsZero())
	assert.Equal(t, 0, empty.Count)
}

func TestRepositoryPayoutCompletion(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	merchantID := uuid.New()
	payout := &models.Payout{
		ID:               uuid.New(),
		MerchantID:       merchantID,
		Amount:           decimal.RequireFromString("310.00"),
		TransactionCount: 4,
		Method:           "ach",
		Status:           enums.PayoutStatusProcessing,
	}
	require.NoError(t, db.Create(payout).Error)

	rows, err := repo.ListPayouts(ctx, merchantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	now := time.Now().UTC()
	payout.Status = enums.PayoutStatusCompleted
	payout.ProcessedAt = &now
	_, err = repo.UpdatePayout(ctx, payout)
	require.NoError(t, err)

	reloaded, err := repo.FindPayout(ctx, merchantID, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PayoutStatusCompleted, reloaded.Status)
	assert.NotNil(t, reloaded.ProcessedAt)

	_, err = repo.FindPayout(ctx, uuid.New(), payout.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
