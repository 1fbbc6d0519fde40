package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
)

// TransactionDTO is the transaction payload returned to merchant clients.
type TransactionDTO struct {
	ID             uuid.UUID        `json:"id"`
	SubscriberID   *uuid.UUID       `json:"subscriber_id,omitempty"`
	ProductName    string           `json:"product_name"`
	Amount         decimal.Decimal  `json:"amount"`
	Status         string           `json:"status"`
	RefundReason   *string          `json:"refund_reason,omitempty"`
	RefundedAmount *decimal.Decimal `json:"refunded_amount,omitempty"`
	RefundedAt     *time.Time       `json:"refunded_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// PayoutDTO is the payout payload returned to merchant clients.
type PayoutDTO struct {
	ID               uuid.UUID       `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transaction_count"`
	Method           string          `json:"method"`
	Status           string          `json:"status"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BalanceSummaryDTO reports the merchant's pending money.
type BalanceSummaryDTO struct {
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	PendingCount     int             `json:"pending_count"`
	CompletedBalance decimal.Decimal `json:"completed_balance"`
	RefundedTotal    decimal.Decimal `json:"refunded_total"`
}

// NewTransactionDTO converts the persisted model into the API payload.
func NewTransactionDTO(txn *models.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:             txn.ID,
		SubscriberID:   txn.SubscriberID,
		ProductName:    txn.ProductName,
		Amount:         txn.Amount,
		Status:         string(txn.Status),
		RefundReason:   txn.RefundReason,
		RefundedAmount: txn.RefundedAmount,
		RefundedAt:     txn.RefundedAt,
		CreatedAt:      txn.CreatedAt,
	}
}

// NewPayoutDTO converts the persisted model into the API payload.
func NewPayoutDTO(payout *models.Payout) *PayoutDTO {
	return &PayoutDTO{
		ID:               payout.ID,
		Amount:           payout.Amount,
		TransactionCount: payout.TransactionCount,
		Method:           payout.Method,
		Status:           string(payout.Status),
		ProcessedAt:      payout.ProcessedAt,
		CreatedAt:        payout.CreatedAt,
	}
}
