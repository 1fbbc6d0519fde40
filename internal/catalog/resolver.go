package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Field names reported in OverriddenFields. These match the JSON keys the
// edit endpoint accepts.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldStatus        = "status"
	FieldBenefits      = "benefits"
	FieldSideEffects   = "side_effects"
	FieldImages        = "images"
	FieldDosageOptions = "dosage_options"
)

// ResolvedProduct is the merchant-facing view of a product: the admin base
// with the merchant delta layered on top. Scalar fields win when the delta
// carries them; array fields replace the base wholesale, never element-wise.
type ResolvedProduct struct {
	ID               uuid.UUID
	Name             string
	Category         enums.ProductCategory
	Description      *string
	Price            decimal.Decimal
	Status           enums.ProductStatus
	Benefits         []string
	SideEffects      []string
	Images           []string
	DosageOptions    []ResolvedDosageOption
	IsOverridden     bool
	OverriddenFields []string
	Version          int
	LastModified     *time.Time
	ModifiedBy       *enums.Actor
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ResolvedDosageOption is one strength of the resolved product.
type ResolvedDosageOption struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	IsDefault bool
	Position  int
}

// Resolve merges the merchant delta over the admin base. A nil override (or
// one with no overridden fields) yields the base view unchanged, which is
// what makes reset-to-default a pure delete.
func Resolve(base *models.Product, override *models.ProductOverride) *ResolvedProduct {
	resolved := &ResolvedProduct{
		ID:          base.ID,
		Name:        base.Name,
		Category:    base.Category,
		Description: base.Description,
		Price:       base.BasePrice,
		Status:      base.Status,
		Benefits:    append([]string{}, base.Benefits...),
		SideEffects: append([]string{}, base.SideEffects...),
		Images:      append([]string{}, base.Images...),
		CreatedAt:   base.CreatedAt,
		UpdatedAt:   base.UpdatedAt,
	}
	resolved.DosageOptions = baseDosages(base.DosageOptions)

	if override == nil || override.IsEmpty() {
		normalizeDefault(resolved.DosageOptions)
		return resolved
	}

	var fields []string
	if override.Name != nil {
		resolved.Name = *override.Name
		fields = append(fields, FieldName)
	}
	if override.Description != nil {
		resolved.Description = override.Description
		fields = append(fields, FieldDescription)
	}
	if override.MerchantPrice != nil {
		resolved.Price = *override.MerchantPrice
		fields = append(fields, FieldPrice)
	}
	if override.Status != nil {
		resolved.Status = *override.Status
		fields = append(fields, FieldStatus)
	}
	if override.Benefits != nil {
		resolved.Benefits = append([]string{}, *override.Benefits...)
		fields = append(fields, FieldBenefits)
	}
	if override.SideEffects != nil {
		resolved.SideEffects = append([]string{}, *override.SideEffects...)
		fields = append(fields, FieldSideEffects)
	}
	if override.Images != nil {
		resolved.Images = append([]string{}, *override.Images...)
		fields = append(fields, FieldImages)
	}
	if override.DosageOptionsSet {
		resolved.DosageOptions = overrideDosages(override.DosageOptions)
		fields = append(fields, FieldDosageOptions)
	}
	normalizeDefault(resolved.DosageOptions)

	resolved.IsOverridden = len(fields) > 0
	resolved.OverriddenFields = fields
	resolved.Version = override.Version
	if !override.LastModified.IsZero() {
		lm := override.LastModified
		resolved.LastModified = &lm
	}
	actor := override.ModifiedBy
	resolved.ModifiedBy = &actor
	return resolved
}

func baseDosages(options []models.ProductDosageOption) []ResolvedDosageOption {
	out := make([]ResolvedDosageOption, len(options))
	for i, opt := range options {
		out[i] = ResolvedDosageOption{
			ID:        opt.ID,
			Name:      opt.Name,
			Price:     opt.AdminPrice,
			IsDefault: opt.IsDefault,
			Position:  opt.Position,
		}
	}
	return out
}

func overrideDosages(options []models.OverrideDosageOption) []ResolvedDosageOption {
	out := make([]ResolvedDosageOption, len(options))
	for i, opt := range options {
		out[i] = ResolvedDosageOption{
			ID:        opt.ID,
			Name:      opt.Name,
			Price:     opt.Price,
			IsDefault: opt.IsDefault,
			Position:  opt.Position,
		}
	}
	return out
}

// normalizeDefault enforces the exactly-one-default invariant on read: the
// first flagged option keeps the flag, later ones lose it, and when none is
// flagged the first option becomes the default.
func normalizeDefault(options []ResolvedDosageOption) {
	if len(options) == 0 {
		return
	}
	found := false
	for i := range options {
		if options[i].IsDefault {
			if found {
				options[i].IsDefault = false
				continue
			}
			found = true
		}
	}
	if !found {
		options[0].IsDefault = true
	}
}
