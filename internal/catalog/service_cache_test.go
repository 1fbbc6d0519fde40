package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/pkg/db"
	"github.com/saulrivera/medcart-backend/pkg/db/models"
)

type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryCache) ResolvedProductKey(merchantID, productID, revision string) string {
	return merchantID + ":" + productID + ":" + revision
}

func TestGetProductServesFreshViewAfterBaseImport(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	cache := newMemoryCache()
	svc, err := NewService(repo, db.NewFromConn(tx), cache, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	merchantID := uuid.New()
	product := mustCreateTestProduct(t, tx)

	first, err := svc.GetProduct(ctx, merchantID, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if first.Name != product.Name {
		t.Fatalf("expected base name, got %q", first.Name)
	}
	if len(cache.values) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(cache.values))
	}

	// admin import rewrites the base row out-of-band
	updates := map[string]any{
		"name":       "Imported Name",
		"updated_at": product.UpdatedAt.Add(time.Second),
	}
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
		t.Fatalf("update base product: %v", err)
	}

	refreshed, err := svc.GetProduct(ctx, merchantID, product.ID)
	if err != nil {
		t.Fatalf("get product after import: %v", err)
	}
	if refreshed.Name != "Imported Name" {
		t.Fatalf("resolved view must track the new base row, got %q", refreshed.Name)
	}
	if len(cache.values) != 2 {
		t.Fatalf("new base revision must occupy its own cache key, got %d entries", len(cache.values))
	}
}
