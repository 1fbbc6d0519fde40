package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/saulrivera/medcart-backend/pkg/db/types"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Coupon is merchant-owned. Code is stored upper-cased and unique per
// merchant. Status is derived on read, never stored.
type Coupon struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID    uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:idx_coupons_merchant_code"`
	Code          string             `gorm:"column:code;not null;uniqueIndex:idx_coupons_merchant_code"`
	Description   *string            `gorm:"column:description"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	AppliesTo     enums.CouponScope  `gorm:"column:applies_to;not null;default:'all'"`
	ProductIDs    dbtypes.UUIDArray  `gorm:"column:product_ids;type:uuid[]"`
	UsageLimit    *int               `gorm:"column:usage_limit"`
	CurrentUsage  int                `gorm:"column:current_usage;not null;default:0"`
	ExpiryDate    time.Time          `gorm:"column:expiry_date;not null"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
