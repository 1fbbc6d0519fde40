package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	"github.com/saulrivera/medcart-backend/pkg/pagination"
)

// productListQuery captures the inputs for one catalog page.
type productListQuery struct {
	Pagination pagination.Params
	Category   *enums.ProductCategory
	Query      string
}

// Repository wires together catalog persistence: base products plus
// per-merchant override rows.
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

// FindProductByID loads the base product with its dosage options.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("DosageOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns one page of base products ordered newest-first.
func (r *Repository) ListProducts(ctx context.Context, query productListQuery) ([]models.Product, *string, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)

	tx := r.db.WithContext(ctx).
		Preload("DosageOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if query.Category != nil {
		tx = tx.Where("category = ?", *query.Category)
	}
	if query.Query != "" {
		tx = tx.Where("name ILIKE ?", "%"+query.Query+"%")
	}
	if cursor, err := pagination.ParseCursor(query.Pagination.Cursor); err != nil {
		return nil, nil, err
	} else if cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := tx.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		encoded := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		next = &encoded
	}
	return rows, next, nil
}

// FindOverride loads the merchant delta for a product, with replacement
// dosage rows when present.
func (r *Repository) FindOverride(ctx context.Context, merchantID, productID uuid.UUID) (*models.ProductOverride, error) {
	var override models.ProductOverride
	err := r.db.WithContext(ctx).
		Preload("DosageOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&override, "merchant_id = ? AND product_id = ?", merchantID, productID).
		Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// FindOverridesForProducts loads the merchant deltas for a batch of products
// keyed by product id.
func (r *Repository) FindOverridesForProducts(ctx context.Context, merchantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*models.ProductOverride, error) {
	out := make(map[uuid.UUID]*models.ProductOverride, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.ProductOverride
	err := r.db.WithContext(ctx).
		Preload("DosageOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("merchant_id = ? AND product_id IN ?", merchantID, productIDs).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ProductID] = &rows[i]
	}
	return out, nil
}

// CreateOverride inserts a new delta row.
func (r *Repository) CreateOverride(ctx context.Context, override *models.ProductOverride) (*models.ProductOverride, error) {
	if err := r.db.WithContext(ctx).Create(override).Error; err != nil {
		return nil, err
	}
	return override, nil
}

// UpdateOverrideVersioned saves the delta only if the stored version still
// matches expectedVersion. Returns gorm.ErrRecordNotFound when the guard
// misses, which callers surface as a version conflict.
func (r *Repository) UpdateOverrideVersioned(ctx context.Context, override *models.ProductOverride, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductOverride{}).
		Where("id = ? AND version = ?", override.ID, expectedVersion).
		Select("name", "description", "merchant_price", "status", "benefits",
			"side_effects", "images", "dosage_options_set", "version",
			"modified_by", "last_modified").
		Updates(override)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceOverrideDosages swaps the replacement dosage rows for a delta.
func (r *Repository) ReplaceOverrideDosages(ctx context.Context, overrideID uuid.UUID, options []models.OverrideDosageOption) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("override_id = ?", overrideID).Delete(&models.OverrideDosageOption{}).Error; err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}
	return tx.Create(&options).Error
}

// DeleteOverride removes the delta entirely. Deleting an absent delta is not
// an error; reset is idempotent.
func (r *Repository) DeleteOverride(ctx context.Context, merchantID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("merchant_id = ? AND product_id = ?", merchantID, productID).
		Delete(&models.ProductOverride{}).
		Error
}
