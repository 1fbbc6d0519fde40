package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

// Service exposes merchant transaction and payout reads plus the refund
// transition.
type Service interface {
	ListTransactions(ctx context.Context, merchantID uuid.UUID, status *enums.TransactionStatus) ([]TransactionDTO, error)
	GetSummary(ctx context.Context, merchantID uuid.UUID) (*BalanceSummaryDTO, error)
	Refund(ctx context.Context, merchantID, transactionID uuid.UUID, input RefundInput) (*TransactionDTO, error)
	ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]PayoutDTO, error)
	CompletePayout(ctx context.Context, merchantID, payoutID uuid.UUID, actor enums.Actor) (*PayoutDTO, error)
}

// RefundInput carries the refund request.
type RefundInput struct {
	Amount decimal.Decimal
	Reason string
}

// transactionStore is the narrow persistence surface the service needs;
// tests swap in a fake.
type transactionStore interface {
	FindTransaction(ctx context.Context, merchantID, transactionID uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, merchantID uuid.UUID, status *enums.TransactionStatus) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	SumByStatus(ctx context.Context, merchantID uuid.UUID, status enums.TransactionStatus) (decimalSum, error)
	ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]models.Payout, error)
	FindPayout(ctx context.Context, merchantID, payoutID uuid.UUID) (*models.Payout, error)
	UpdatePayout(ctx context.Context, payout *models.Payout) (*models.Payout, error)
}

type service struct {
	store transactionStore
	now   func() time.Time
}

// NewService constructs the payments service.
func NewService(store transactionStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("transaction store required")
	}
	return &service{store: store, now: func() time.Time { return time.Now().UTC() }}, nil
}

// ListTransactions returns the merchant's transactions.
func (s *service) ListTransactions(ctx context.Context, merchantID uuid.UUID, status *enums.TransactionStatus) ([]TransactionDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction status").
			WithField("status", "invalid value")
	}
	rows, err := s.store.ListTransactions(ctx, merchantID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	out := make([]TransactionDTO, len(rows))
	for i := range rows {
		out[i] = *NewTransactionDTO(&rows[i])
	}
	return out, nil
}

// GetSummary reports pending balance plus completed and refunded totals.
func (s *service) GetSummary(ctx context.Context, merchantID uuid.UUID) (*BalanceSummaryDTO, error) {
	pending, err := s.store.SumByStatus(ctx, merchantID, enums.TransactionStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum pending")
	}
	completed, err := s.store.SumByStatus(ctx, merchantID, enums.TransactionStatusCompleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum completed")
	}
	refunded, err := s.store.SumByStatus(ctx, merchantID, enums.TransactionStatusRefunded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum refunded")
	}
	return &BalanceSummaryDTO{
		PendingBalance:   pending.Total,
		PendingCount:     pending.Count,
		CompletedBalance: completed.Total,
		RefundedTotal:    refunded.Total,
	}, nil
}

// Refund moves a completed transaction to refunded. The transition is
// irreversible; refunding twice reports AlreadyRefunded.
func (s *service) Refund(ctx context.Context, merchantID, transactionID uuid.UUID, input RefundInput) (*TransactionDTO, error) {
	txn, err := s.store.FindTransaction(ctx, merchantID, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}

	switch txn.Status {
	case enums.TransactionStatusRefunded:
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyRefunded, "transaction already refunded")
	case enums.TransactionStatusCompleted:
		// refundable
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot refund a %s transaction", txn.Status))
	}

	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive").
			WithField("amount", "must be positive")
	}
	if input.Amount.GreaterThan(txn.Amount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount exceeds transaction amount").
			WithField("amount", "exceeds transaction amount")
	}

	now := s.now()
	amount := input.Amount
	txn.Status = enums.TransactionStatusRefunded
	txn.RefundedAmount = &amount
	txn.RefundedAt = &now
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		txn.RefundReason = &reason
	}

	updated, err := s.store.UpdateTransaction(ctx, txn)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update transaction")
	}
	return NewTransactionDTO(updated), nil
}

// ListPayouts returns the merchant's payouts.
func (s *service) ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]PayoutDTO, error) {
	rows, err := s.store.ListPayouts(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payouts")
	}
	out := make([]PayoutDTO, len(rows))
	for i := range rows {
		out[i] = *NewPayoutDTO(&rows[i])
	}
	return out, nil
}

// CompletePayout marks a processing payout as completed. Only platform
// operators may drive the transition; completed payouts stay completed.
func (s *service) CompletePayout(ctx context.Context, merchantID, payoutID uuid.UUID, actor enums.Actor) (*PayoutDTO, error) {
	if actor != enums.ActorAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "payout completion is restricted to platform operators")
	}

	payout, err := s.store.FindPayout(ctx, merchantID, payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payout not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payout")
	}
	if payout.Status == enums.PayoutStatusCompleted {
		return NewPayoutDTO(payout), nil
	}

	now := s.now()
	payout.Status = enums.PayoutStatusCompleted
	payout.ProcessedAt = &now
	updated, err := s.store.UpdatePayout(ctx, payout)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update payout")
	}
	return NewPayoutDTO(updated), nil
}
