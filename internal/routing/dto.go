package routing

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// PharmacyDTO is the pharmacy payload returned to merchant clients.
type PharmacyDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	NPI             string    `json:"npi"`
	StateLicense    string    `json:"state_license"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	PostalCode      string    `json:"postal_code,omitempty"`
	Status          string    `json:"status"`
	StatesAvailable []string  `json:"states_available"`
	IsAdminPharmacy bool      `json:"is_admin_pharmacy"`
	CreatedAt       time.Time `json:"created_at"`
}

// StateRoutingDTO describes the effective routing for one state.
type StateRoutingDTO struct {
	State        string       `json:"state"`
	Pharmacy     *PharmacyDTO `json:"pharmacy,omitempty"`
	IsOverridden bool         `json:"is_overridden"`
	Version      int          `json:"version"`
	Warnings     []string     `json:"warnings,omitempty"`
	LastModified *time.Time   `json:"last_modified,omitempty"`
	ModifiedBy   *string      `json:"modified_by,omitempty"`
}

// AssignmentDTO is one (state, product) claim on a pharmacy.
type AssignmentDTO struct {
	ID         uuid.UUID `json:"id"`
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	State      string    `json:"state"`
	ProductID  uuid.UUID `json:"product_id"`
	AssignedAt time.Time `json:"assigned_at"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// NewPharmacyDTO converts the persisted model into the API payload.
func NewPharmacyDTO(pharmacy *models.Pharmacy) *PharmacyDTO {
	return &PharmacyDTO{
		ID:              pharmacy.ID,
		Name:            pharmacy.Name,
		NPI:             pharmacy.NPI,
		StateLicense:    pharmacy.StateLicense,
		Phone:           pharmacy.Contact.Phone,
		Email:           pharmacy.Contact.Email,
		Address:         pharmacy.Contact.Address,
		City:            pharmacy.Contact.City,
		State:           pharmacy.Contact.State,
		PostalCode:      pharmacy.Contact.PostalCode,
		Status:          string(pharmacy.Status),
		StatesAvailable: append([]string{}, pharmacy.StatesAvailable...),
		IsAdminPharmacy: pharmacy.OwnerKind == enums.OwnerKindPlatform,
		CreatedAt:       pharmacy.CreatedAt,
	}
}
