package coupons

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbtypes "github.com/saulrivera/medcart-backend/pkg/db/types"
	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MEDCART_DB_DSN")
	if dsn == "" {
		t.Skip("MEDCART_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryCouponFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	merchantID := uuid.New()

	productID := uuid.New()
	coupon := &models.Coupon{
		MerchantID:    merchantID,
		Code:          "SUMMER20",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(20),
		AppliesTo:     enums.CouponScopeSelected,
		ProductIDs:    dbtypes.UUIDArray{productID},
		ExpiryDate:    time.Now().Add(30 * 24 * time.Hour),
		IsActive:      true,
	}
	created, err := repo.Create(ctx, coupon)
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected coupon id to be generated")
	}

	byCode, err := repo.FindByCode(ctx, merchantID, "SUMMER20")
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if len(byCode.ProductIDs) != 1 || byCode.ProductIDs[0] != productID {
		t.Fatalf("expected product ids to round-trip, got %v", byCode.ProductIDs)
	}

	byCode.CurrentUsage = 5
	if _, err := repo.Update(ctx, byCode); err != nil {
		t.Fatalf("update coupon: %v", err)
	}

	list, err := repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		t.Fatalf("list coupons: %v", err)
	}
	if len(list) != 1 || list[0].CurrentUsage != 5 {
		t.Fatalf("expected updated coupon in list, got %+v", list)
	}

	if err := repo.Delete(ctx, merchantID, created.ID); err != nil {
		t.Fatalf("delete coupon: %v", err)
	}
	if _, err := repo.FindByID(ctx, merchantID, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
