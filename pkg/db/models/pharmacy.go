package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/saulrivera/medcart-backend/pkg/enums"
	"github.com/saulrivera/medcart-backend/pkg/types"
)

// Pharmacy is a fulfillment partner. Platform pharmacies are admin-imported;
// merchant pharmacies are quick-added and owned by one merchant.
type Pharmacy struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string               `gorm:"column:name;not null"`
	NPI             string               `gorm:"column:npi;not null"`
	StateLicense    string               `gorm:"column:state_license;not null"`
	Contact         types.Contact        `gorm:"embedded"`
	Status          enums.PharmacyStatus `gorm:"column:status;not null;default:'active'"`
	StatesAvailable pq.StringArray       `gorm:"column:states_available;type:text[];not null;default:ARRAY[]::text[]"`
	OwnerKind       enums.OwnerKind      `gorm:"column:owner_kind;not null;default:'platform'"`
	MerchantID      *uuid.UUID           `gorm:"column:merchant_id;type:uuid;index"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// ServesState reports whether the pharmacy lists the state code.
func (p *Pharmacy) ServesState(state string) bool {
	for _, s := range p.StatesAvailable {
		if s == state {
			return true
		}
	}
	return false
}

// IsEligible reports whether the pharmacy can fulfill in the state right now.
func (p *Pharmacy) IsEligible(state string) bool {
	return p.Status == enums.PharmacyStatusActive && p.ServesState(state)
}
