package enums

import "fmt"

// PharmacyStatus marks whether a pharmacy can currently fulfill orders.
type PharmacyStatus string

const (
	PharmacyStatusActive   PharmacyStatus = "active"
	PharmacyStatusInactive PharmacyStatus = "inactive"
)

var validPharmacyStatuses = []PharmacyStatus{
	PharmacyStatusActive,
	PharmacyStatusInactive,
}

// String implements fmt.Stringer.
func (s PharmacyStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s PharmacyStatus) IsValid() bool {
	for _, candidate := range validPharmacyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePharmacyStatus converts raw input into a PharmacyStatus.
func ParsePharmacyStatus(value string) (PharmacyStatus, error) {
	for _, candidate := range validPharmacyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pharmacy status %q", value)
}

// OwnerKind distinguishes platform-authored pharmacies from merchant-added ones.
type OwnerKind string

const (
	OwnerKindPlatform OwnerKind = "platform"
	OwnerKindMerchant OwnerKind = "merchant"
)

var validOwnerKinds = []OwnerKind{
	OwnerKindPlatform,
	OwnerKindMerchant,
}

// String implements fmt.Stringer.
func (k OwnerKind) String() string {
	return string(k)
}

// IsValid reports whether the value is known.
func (k OwnerKind) IsValid() bool {
	for _, candidate := range validOwnerKinds {
		if candidate == k {
			return true
		}
	}
	return false
}
