package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/pkg/config"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func rateLimitedHandler(limiter *fakeLimiter, writes int) http.Handler {
	cfg := config.RateLimitConfig{Enabled: true, Writes: writes, Window: time.Minute}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return WriteRateLimit(cfg, limiter, nil)(next)
}

func serveAs(t *testing.T, handler http.Handler, method string, merchantID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/merchant/coupons", strings.NewReader("{}"))
	req = req.WithContext(WithMerchantID(req.Context(), merchantID.String()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestWriteRateLimitBlocksOverLimitWrites(t *testing.T) {
	limiter := newFakeLimiter()
	handler := rateLimitedHandler(limiter, 2)
	merchantID := uuid.New()

	for i := 0; i < 2; i++ {
		if resp := serveAs(t, handler, http.MethodPost, merchantID); resp.Code != http.StatusOK {
			t.Fatalf("write %d should pass, got %d", i+1, resp.Code)
		}
	}

	resp := serveAs(t, handler, http.MethodPost, merchantID)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestWriteRateLimitScopesPerMerchant(t *testing.T) {
	limiter := newFakeLimiter()
	handler := rateLimitedHandler(limiter, 1)

	if resp := serveAs(t, handler, http.MethodPost, uuid.New()); resp.Code != http.StatusOK {
		t.Fatalf("first merchant should pass, got %d", resp.Code)
	}
	if resp := serveAs(t, handler, http.MethodPost, uuid.New()); resp.Code != http.StatusOK {
		t.Fatalf("second merchant must have its own window, got %d", resp.Code)
	}
}

func TestWriteRateLimitIgnoresReads(t *testing.T) {
	limiter := newFakeLimiter()
	handler := rateLimitedHandler(limiter, 1)
	merchantID := uuid.New()

	for i := 0; i < 5; i++ {
		if resp := serveAs(t, handler, http.MethodGet, merchantID); resp.Code != http.StatusOK {
			t.Fatalf("reads must never be throttled, got %d", resp.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatal("reads must not touch the counter")
	}
}

func TestWriteRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Writes: 1, Window: time.Minute}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := WriteRateLimit(cfg, newFakeLimiter(), nil)(next)

	merchantID := uuid.New()
	for i := 0; i < 3; i++ {
		if resp := serveAs(t, handler, http.MethodPost, merchantID); resp.Code != http.StatusOK {
			t.Fatalf("disabled limiter must pass everything, got %d", resp.Code)
		}
	}
}
