package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolvedProductDTO is the product payload returned to merchant clients.
type ResolvedProductDTO struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Description      *string           `json:"description,omitempty"`
	Price            decimal.Decimal   `json:"price"`
	Status           string            `json:"status"`
	Benefits         []string          `json:"benefits"`
	SideEffects      []string          `json:"side_effects"`
	Images           []string          `json:"images"`
	DosageOptions    []DosageOptionDTO `json:"dosage_options"`
	IsOverridden     bool              `json:"is_overridden"`
	OverriddenFields []string          `json:"overridden_fields,omitempty"`
	Version          int               `json:"version"`
	LastModified     *time.Time        `json:"last_modified,omitempty"`
	ModifiedBy       *string           `json:"modified_by,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// DosageOptionDTO exposes one resolved strength.
type DosageOptionDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	IsDefault bool            `json:"is_default"`
	Position  int             `json:"position"`
}

// ProductListResult carries one page of resolved products.
type ProductListResult struct {
	Products   []ResolvedProductDTO `json:"products"`
	NextCursor *string              `json:"next_cursor,omitempty"`
}

// NewResolvedProductDTO converts the resolved view into the API payload.
func NewResolvedProductDTO(resolved *ResolvedProduct) *ResolvedProductDTO {
	dto := &ResolvedProductDTO{
		ID:               resolved.ID,
		Name:             resolved.Name,
		Category:         string(resolved.Category),
		Description:      resolved.Description,
		Price:            resolved.Price,
		Status:           string(resolved.Status),
		Benefits:         resolved.Benefits,
		SideEffects:      resolved.SideEffects,
		Images:           resolved.Images,
		IsOverridden:     resolved.IsOverridden,
		OverriddenFields: resolved.OverriddenFields,
		Version:          resolved.Version,
		LastModified:     resolved.LastModified,
		CreatedAt:        resolved.CreatedAt,
		UpdatedAt:        resolved.UpdatedAt,
	}
	if resolved.ModifiedBy != nil {
		actor := string(*resolved.ModifiedBy)
		dto.ModifiedBy = &actor
	}
	dto.DosageOptions = make([]DosageOptionDTO, len(resolved.DosageOptions))
	for i, opt := range resolved.DosageOptions {
		dto.DosageOptions[i] = DosageOptionDTO{
			ID:        opt.ID,
			Name:      opt.Name,
			Price:     opt.Price,
			IsDefault: opt.IsDefault,
			Position:  opt.Position,
		}
	}
	return dto
}
