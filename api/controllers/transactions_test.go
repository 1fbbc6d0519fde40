package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/internal/payments"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

type testPaymentsService struct {
	listFn     func(ctx context.Context, merchantID uuid.UUID, status *enums.TransactionStatus) ([]payments.TransactionDTO, error)
	summaryFn  func(ctx context.Context, merchantID uuid.UUID) (*payments.BalanceSummaryDTO, error)
	refundFn   func(ctx context.Context, merchantID, transactionID uuid.UUID, input payments.RefundInput) (*payments.TransactionDTO, error)
	payoutsFn  func(ctx context.Context, merchantID uuid.UUID) ([]payments.PayoutDTO, error)
	completeFn func(ctx context.Context, merchantID, payoutID uuid.UUID, actor enums.Actor) (*payments.PayoutDTO, error)
}

func (s *testPaymentsService) ListTransactions(ctx context.Context, merchantID uuid.UUID, status *enums.TransactionStatus) ([]payments.TransactionDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, merchantID, status)
	}
	return nil, nil
}

func (s *testPaymentsService) GetSummary(ctx context.Context, merchantID uuid.UUID) (*payments.BalanceSummaryDTO, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx, merchantID)
	}
	return &payments.BalanceSummaryDTO{}, nil
}

func (s *testPaymentsService) Refund(ctx context.Context, merchantID, transactionID uuid.UUID, input payments.RefundInput) (*payments.TransactionDTO, error) {
	if s.refundFn != nil {
		return s.refundFn(ctx, merchantID, transactionID, input)
	}
	return &payments.TransactionDTO{}, nil
}

func (s *testPaymentsService) ListPayouts(ctx context.Context, merchantID uuid.UUID) ([]payments.PayoutDTO, error) {
	if s.payoutsFn != nil {
		return s.payoutsFn(ctx, merchantID)
	}
	return nil, nil
}

func (s *testPaymentsService) CompletePayout(ctx context.Context, merchantID, payoutID uuid.UUID, actor enums.Actor) (*payments.PayoutDTO, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, merchantID, payoutID, actor)
	}
	return &payments.PayoutDTO{}, nil
}

func TestTransactionRefundPassesAmount(t *testing.T) {
	merchantID := uuid.New()
	transactionID := uuid.New()
	svc := &testPaymentsService{
		refundFn: func(ctx context.Context, mid, tid uuid.UUID, input payments.RefundInput) (*payments.TransactionDTO, error) {
			if mid != merchantID || tid != transactionID {
				t.Fatalf("unexpected identifiers %s %s", mid, tid)
			}
			if !input.Amount.Equal(decimal.RequireFromString("25.50")) {
				t.Fatalf("unexpected amount %s", input.Amount)
			}
			if input.Reason != "duplicate charge" {
				t.Fatalf("unexpected reason %q", input.Reason)
			}
			return &payments.TransactionDTO{ID: tid, Status: string(enums.TransactionStatusRefunded)}, nil
		},
	}

	body := `{"amount":"25.50","reason":"duplicate charge"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/transactions/"+transactionID.String()+"/refund", strings.NewReader(body))
	req = withMerchant(req, merchantID)
	req = addRouteParam(req, "transactionId", transactionID.String())

	resp := httptest.NewRecorder()
	TransactionRefund(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data payments.TransactionDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != string(enums.TransactionStatusRefunded) {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestTransactionRefundAlreadyRefundedMapsTo409(t *testing.T) {
	svc := &testPaymentsService{
		refundFn: func(ctx context.Context, mid, tid uuid.UUID, input payments.RefundInput) (*payments.TransactionDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyRefunded, "transaction already refunded")
		},
	}

	transactionID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/transactions/"+transactionID.String()+"/refund", strings.NewReader(`{"amount":"10.00"}`))
	req = withMerchant(req, uuid.New())
	req = addRouteParam(req, "transactionId", transactionID.String())

	resp := httptest.NewRecorder()
	TransactionRefund(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeAlreadyRefunded) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
	if payload.Error.Message != "transaction already refunded" {
		t.Fatalf("unexpected message %q", payload.Error.Message)
	}
}

func TestPayoutCompleteForwardsActor(t *testing.T) {
	payoutID := uuid.New()
	svc := &testPaymentsService{
		completeFn: func(ctx context.Context, mid, pid uuid.UUID, actor enums.Actor) (*payments.PayoutDTO, error) {
			if actor != enums.ActorMerchant {
				t.Fatalf("expected merchant actor by default, got %s", actor)
			}
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "payout completion is restricted to platform operators")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/payouts/"+payoutID.String()+"/complete", nil)
	req = withMerchant(req, uuid.New())
	req = addRouteParam(req, "payoutId", payoutID.String())

	resp := httptest.NewRecorder()
	PayoutComplete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestPayoutCompleteAllowsAdminActor(t *testing.T) {
	payoutID := uuid.New()
	svc := &testPaymentsService{
		completeFn: func(ctx context.Context, mid, pid uuid.UUID, actor enums.Actor) (*payments.PayoutDTO, error) {
			if actor != enums.ActorAdmin {
				t.Fatalf("expected admin actor, got %s", actor)
			}
			return &payments.PayoutDTO{ID: pid, Status: string(enums.PayoutStatusCompleted)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/payouts/"+payoutID.String()+"/complete", nil)
	req = withMerchant(req, uuid.New())
	req = withActor(req, enums.ActorAdmin.String())
	req = addRouteParam(req, "payoutId", payoutID.String())

	resp := httptest.NewRecorder()
	PayoutComplete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
}

func TestTransactionListRejectsBogusStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchant/transactions?status=frozen", nil)
	req = withMerchant(req, uuid.New())

	resp := httptest.NewRecorder()
	TransactionList(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
