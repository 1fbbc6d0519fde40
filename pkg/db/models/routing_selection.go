package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// RoutingSelection is the merchant's per-state pharmacy choice. A missing row
// or IsOverridden=false means the state rides the system default.
type RoutingSelection struct {
	ID                 uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID         uuid.UUID   `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:idx_routing_merchant_state"`
	State              string      `gorm:"column:state;not null;uniqueIndex:idx_routing_merchant_state"`
	SelectedPharmacyID *uuid.UUID  `gorm:"column:selected_pharmacy_id;type:uuid"`
	IsOverridden       bool        `gorm:"column:is_overridden;not null;default:false"`
	Version            int         `gorm:"column:version;not null;default:1"`
	ModifiedBy         enums.Actor `gorm:"column:modified_by;not null;default:'admin'"`
	LastModified       time.Time   `gorm:"column:last_modified;not null"`
	CreatedAt          time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// PharmacyAssignment binds a merchant pharmacy to a (state, product) pair.
// When several assignments claim the same pair, the most recent one wins.
type PharmacyAssignment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;index"`
	PharmacyID uuid.UUID `gorm:"column:pharmacy_id;type:uuid;not null;index"`
	State      string    `gorm:"column:state;not null"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	AssignedAt time.Time `gorm:"column:assigned_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
