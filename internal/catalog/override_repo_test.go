package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Repo Product",
		Category:  enums.ProductCategoryWellness,
		BasePrice: decimal.NewFromInt(99),
		Benefits:  pq.StringArray{"baseline"},
		Status:    enums.ProductStatusActive,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryOverrideFlow(t *testing.T) {
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

	product := mustCreateTestProduct(t, tx)

	if _, err := repo.FindOverride(ctx, merchantID, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found before create, got %v", err)
	}

	name := "Custom"
	override := &models.ProductOverride{
		ProductID:  product.ID,
		MerchantID: merchantID,
		Name:       &name,
		Version:    1,
		ModifiedBy: enums.ActorMerchant,
	}
	created, err := repo.CreateOverride(ctx, override)
	if err != nil {
		t.Fatalf("create override: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected override id to be generated")
	}

	price := decimal.NewFromInt(50)
	created.MerchantPrice = &price
	created.Version = 2
	if err := repo.UpdateOverrideVersioned(ctx, created, 1); err != nil {
		t.Fatalf("versioned update: %v", err)
	}

	// stale guard must miss now that version is 2
	created.Version = 3
	if err := repo.UpdateOverrideVersioned(ctx, created, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected stale guard miss, got %v", err)
	}

	fetched, err := repo.FindOverride(ctx, merchantID, product.ID)
	if err != nil {
		t.Fatalf("find override: %v", err)
	}
	if fetched.Version != 2 {
		t.Fatalf("expected version 2, got %d", fetched.Version)
	}
	if fetched.MerchantPrice == nil || !fetched.MerchantPrice.Equal(price) {
		t.Fatalf("expected stored price, got %v", fetched.MerchantPrice)
	}

	rows := []models.OverrideDosageOption{
		{OverrideID: fetched.ID, Name: "1mg", Price: decimal.NewFromInt(10), IsDefault: true, Position: 0},
	}
	if err := repo.ReplaceOverrideDosages(ctx, fetched.ID, rows); err != nil {
		t.Fatalf("replace dosages: %v", err)
	}

	if err := repo.DeleteOverride(ctx, merchantID, product.ID); err != nil {
		t.Fatalf("delete override: %v", err)
	}
	if _, err := repo.FindOverride(ctx, merchantID, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// reset is idempotent
	if err := repo.DeleteOverride(ctx, merchantID, product.ID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}
