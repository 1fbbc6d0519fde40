package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// ProductOverride is the merchant delta layered over a Product. Every field is
// optional; nil means "not overridden" and is distinct from an explicit empty
// value. Array fields replace the base wholesale when set.
type ProductOverride struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_overrides_merchant_product"`
	MerchantID uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:idx_product_overrides_merchant_product"`

	Name          *string              `gorm:"column:name"`
	Description   *string              `gorm:"column:description"`
	MerchantPrice *decimal.Decimal     `gorm:"column:merchant_price;type:numeric(12,2)"`
	Status        *enums.ProductStatus `gorm:"column:status"`
	Benefits      *pq.StringArray      `gorm:"column:benefits;type:text[]"`
	SideEffects   *pq.StringArray      `gorm:"column:side_effects;type:text[]"`
	Images        *pq.StringArray      `gorm:"column:images;type:text[]"`

	// DosageOptionsSet records that the merchant replaced the dosage list,
	// even with an empty one. The replacement rows live in DosageOptions.
	DosageOptionsSet bool                   `gorm:"column:dosage_options_set;not null;default:false"`
	DosageOptions    []OverrideDosageOption `gorm:"foreignKey:OverrideID;constraint:OnDelete:CASCADE"`

	Version      int         `gorm:"column:version;not null;default:1"`
	ModifiedBy   enums.Actor `gorm:"column:modified_by;not null;default:'merchant'"`
	LastModified time.Time   `gorm:"column:last_modified;not null"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// IsEmpty reports whether the delta carries no overridden field at all.
func (o *ProductOverride) IsEmpty() bool {
	if o == nil {
		return true
	}
	return o.Name == nil &&
		o.Description == nil &&
		o.MerchantPrice == nil &&
		o.Status == nil &&
		o.Benefits == nil &&
		o.SideEffects == nil &&
		o.Images == nil &&
		!o.DosageOptionsSet
}

// OverrideDosageOption is one merchant-priced strength inside a wholesale
// dosage-list replacement.
type OverrideDosageOption struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OverrideID uuid.UUID       `gorm:"column:override_id;type:uuid;not null;index"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsDefault  bool            `gorm:"column:is_default;not null;default:false"`
	Position   int             `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
