package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/api/middleware"
	"github.com/saulrivera/medcart-backend/internal/catalog"
	"github.com/saulrivera/medcart-backend/pkg/logger"
)

type testCatalogService struct {
	getFn   func(ctx context.Context, merchantID, productID uuid.UUID) (*catalog.ResolvedProductDTO, error)
	listFn  func(ctx context.Context, merchantID uuid.UUID, input catalog.ListProductsInput) (*catalog.ProductListResult, error)
	editFn  func(ctx context.Context, merchantID, productID uuid.UUID, input catalog.EditInput) (*catalog.ResolvedProductDTO, error)
	resetFn func(ctx context.Context, merchantID, productID uuid.UUID, expectedVersion *int) (*catalog.ResolvedProductDTO, error)
}

func (s *testCatalogService) GetProduct(ctx context.Context, merchantID, productID uuid.UUID) (*catalog.ResolvedProductDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, merchantID, productID)
	}
	return &catalog.ResolvedProductDTO{}, nil
}

func (s *testCatalogService) ListProducts(ctx context.Context, merchantID uuid.UUID, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, merchantID, input)
	}
	return &catalog.ProductListResult{}, nil
}

func (s *testCatalogService) ApplyEdit(ctx context.Context, merchantID, productID uuid.UUID, input catalog.EditInput) (*catalog.ResolvedProductDTO, error) {
	if s.editFn != nil {
		return s.editFn(ctx, merchantID, productID, input)
	}
	return &catalog.ResolvedProductDTO{}, nil
}

func (s *testCatalogService) ResetToDefault(ctx context.Context, merchantID, productID uuid.UUID, expectedVersion *int) (*catalog.ResolvedProductDTO, error) {
	if s.resetFn != nil {
		return s.resetFn(ctx, merchantID, productID, expectedVersion)
	}
	return &catalog.ResolvedProductDTO{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withMerchant(req *http.Request, merchantID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithMerchantID(req.Context(), merchantID.String()))
}

func withActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestProductEditPassesDeltaToService(t *testing.T) {
	merchantID := uuid.New()
	productID := uuid.New()
	called := false
	svc := &testCatalogService{
		editFn: func(ctx context.Context, mid, pid uuid.UUID, input catalog.EditInput) (*catalog.ResolvedProductDTO, error) {
			called = true
			if mid != merchantID {
				t.Fatalf("unexpected merchant %s", mid)
			}
			if pid != productID {
				t.Fatalf("unexpected product %s", pid)
			}
			if input.Name == nil || *input.Name != "Renamed" {
				t.Fatalf("expected name delta, got %v", input.Name)
			}
			if input.Description != nil {
				t.Fatal("description should stay unset")
			}
			if input.ExpectedVersion == nil || *input.ExpectedVersion != 3 {
				t.Fatalf("expected version 3, got %v", input.ExpectedVersion)
			}
			return &catalog.ResolvedProductDTO{ID: pid, Name: "Renamed"}, nil
		},
	}

	body := `{"name":"Renamed","expected_version":3}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/merchant/products/"+productID.String(), strings.NewReader(body))
	req = withMerchant(req, merchantID)
	req = addRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	ProductEdit(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
	var envelope struct {
		Data catalog.ResolvedProductDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Name != "Renamed" {
		t.Fatalf("unexpected payload name %q", envelope.Data.Name)
	}
}

func TestProductEditMissingMerchant(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/merchant/products/"+uuid.NewString(), strings.NewReader(`{"name":"x"}`))
	req = addRouteParam(req, "productId", uuid.NewString())

	resp := httptest.NewRecorder()
	ProductEdit(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestProductEditRejectsUnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/merchant/products/"+uuid.NewString(), strings.NewReader(`{"nmae":"typo"}`))
	req = withMerchant(req, uuid.New())
	req = addRouteParam(req, "productId", uuid.NewString())

	resp := httptest.NewRecorder()
	ProductEdit(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductDetailInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchant/products/not-a-uuid", nil)
	req = withMerchant(req, uuid.New())
	req = addRouteParam(req, "productId", "not-a-uuid")

	resp := httptest.NewRecorder()
	ProductDetail(&testCatalogService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductResetWithoutBody(t *testing.T) {
	merchantID := uuid.New()
	productID := uuid.New()
	svc := &testCatalogService{
		resetFn: func(ctx context.Context, mid, pid uuid.UUID, expectedVersion *int) (*catalog.ResolvedProductDTO, error) {
			if expectedVersion != nil {
				t.Fatalf("expected nil version, got %v", *expectedVersion)
			}
			return &catalog.ResolvedProductDTO{ID: pid}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/products/"+productID.String()+"/reset", nil)
	req = withMerchant(req, merchantID)
	req = addRouteParam(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	ProductReset(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
}
