package enums

// Actor identifies who authored the current value of an overridable record.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorMerchant Actor = "merchant"
)

var validActors = []Actor{
	ActorAdmin,
	ActorMerchant,
}

// String implements fmt.Stringer.
func (a Actor) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a Actor) IsValid() bool {
	for _, candidate := range validActors {
		if candidate == a {
			return true
		}
	}
	return false
}
