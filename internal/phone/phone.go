// Package phone validates and normalizes submitted phone numbers.
// US-centric by product choice: the landing page serves a US home
// services business.
package phone

import (
	"errors"
	"strings"
)

// Validation errors surfaced verbatim to the form caller.
var (
	ErrRequired      = errors.New("Phone number is required")
	ErrInvalidFormat = errors.New("Invalid phone number format")
)

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks presence and a 10-or-11 digit count. Letters-only
// input strips to zero digits and fails as too short.
func Validate(s string) error {
	if s == "" {
		return ErrRequired
	}
	n := len(Digits(s))
	if n < 10 || n > 11 {
		return ErrInvalidFormat
	}
	return nil
}

// Normalize converts input to an E.164-ish string: 10 digits get a +1
// country code, 11 digits starting with 1 get a bare +, anything else
// gets a + as-is so the provider rejects it instead of us guessing.
// An empty input therefore normalizes to "+".
func Normalize(s string) string {
	digits := Digits(s)
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	default:
		return "+" + digits
	}
}
