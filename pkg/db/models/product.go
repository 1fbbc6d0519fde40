package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Product is the admin-authored base record. Merchants never mutate it
// directly; their customizations live in ProductOverride.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	Description   *string               `gorm:"column:description"`
	BasePrice     decimal.Decimal       `gorm:"column:base_price;type:numeric(12,2);not null"`
	Benefits      pq.StringArray        `gorm:"column:benefits;type:text[];not null;default:ARRAY[]::text[]"`
	SideEffects   pq.StringArray        `gorm:"column:side_effects;type:text[];not null;default:ARRAY[]::text[]"`
	Images        pq.StringArray        `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Status        enums.ProductStatus   `gorm:"column:status;not null;default:'draft'"`
	DosageOptions []ProductDosageOption `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductDosageOption is one admin-priced strength of a product. Exactly one
// option per product carries IsDefault at resolution time.
type ProductDosageOption struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Name       string          `gorm:"column:name;not null"`
	AdminPrice decimal.Decimal `gorm:"column:admin_price;type:numeric(12,2);not null"`
	IsDefault  bool            `gorm:"column:is_default;not null;default:false"`
	Position   int             `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
