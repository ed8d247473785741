// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalid is returned when a number cannot be parsed for the region.
var ErrInvalid = errors.New("invalid phone number")

// Normalizer formats numbers to E.164 using a default region for numbers
// entered without a country prefix.
type Normalizer struct {
	region string
}

// NewNormalizer returns a Normalizer for the ISO 3166 region code.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "AE"
	}
	return &Normalizer{region: region}
}

// E164 returns the E.164 form of input. Blank input yields "" and no error.
func (n *Normalizer) E164(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}

	number, err := phonenumbers.Parse(trimmed, n.region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return "", ErrInvalid
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}
