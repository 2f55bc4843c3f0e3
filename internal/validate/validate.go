// internal/validate/validate.go
//
// Survey – field validators.
//
// Context
//   Every page of the survey checks raw form input before anything is
//   stored.  The predicates here are pure: no rendering, no logging, and no
//   side effects.  Callers decide how a failure is presented.
//
//   Required fields are checked trimmed, but callers store the value as
//   typed.  Only ASCII digits count as digits; Go's \d and the explicit
//   byte range below both exclude other Unicode decimal digits.
//
//------------------------------------------------------------------------------

package validate

import (
	"regexp"
	"strings"
)

const nationalIDLen = 16

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	taxIDRe = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}\.\d-\d{3}\.\d{3}$`)
)

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidNationalID reports whether s is exactly 16 ASCII digits (NIK).
func IsValidNationalID(s string) bool {
	if len(s) != nationalIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidTaxID reports whether s matches the NPWP layout
// NN.NNN.NNN.N-NNN.NNN.
func IsValidTaxID(s string) bool {
	return taxIDRe.MatchString(s)
}

// IsNonBlank reports whether s has any non-whitespace content.
func IsNonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
