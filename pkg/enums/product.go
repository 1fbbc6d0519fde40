package enums

import "fmt"

// ProductCategory represents the canonical treatment categories in the catalog.
type ProductCategory string

const (
	ProductCategoryWeightLoss     ProductCategory = "weight_loss"
	ProductCategoryHormoneTherapy ProductCategory = "hormone_therapy"
	ProductCategorySkincare       ProductCategory = "skincare"
	ProductCategoryRecovery       ProductCategory = "recovery"
	ProductCategoryHairGrowth     ProductCategory = "hair_growth"
	ProductCategorySexualHealth   ProductCategory = "sexual_health"
	ProductCategoryWellness       ProductCategory = "wellness"
)

var validProductCategories = []ProductCategory{
	ProductCategoryWeightLoss,
	ProductCategoryHormoneTherapy,
	ProductCategorySkincare,
	ProductCategoryRecovery,
	ProductCategoryHairGrowth,
	ProductCategorySexualHealth,
	ProductCategoryWellness,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductStatus represents the merchant-visible lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusInactive ProductStatus = "inactive"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusDraft,
	ProductStatusInactive,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
