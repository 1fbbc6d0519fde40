package enums

import (
	"fmt"
	"strings"
)

// USStateCodes lists the two-letter codes routing selections are keyed by.
var USStateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	"DC",
}

var usStateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(USStateCodes))
	for _, code := range USStateCodes {
		set[code] = struct{}{}
	}
	return set
}()

// IsUSState reports whether the value is a known two-letter state code.
func IsUSState(code string) bool {
	_, ok := usStateSet[code]
	return ok
}

// ParseUSState normalizes raw input into a canonical state code.
func ParseUSState(value string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(value))
	if !IsUSState(code) {
		return "", fmt.Errorf("invalid state code %q", value)
	}
	return code, nil
}
