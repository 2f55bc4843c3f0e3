// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, so the binary never runs
// with partial, malformed, or missing configuration.
//
// Besides the built-in rules, `csrfkey` checks that a configured CSRF key
// decodes to at least 32 bytes.  Empty is allowed; the form package then
// generates a per-process key.

package config

import (
	"encoding/base64"

	"github.com/go-playground/validator/v10"
)

const minCSRFKeyBytes = 32

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	_ = val.RegisterValidation("csrfkey", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		b, err := base64.RawURLEncoding.DecodeString(s)
		return err == nil && len(b) >= minCSRFKeyBytes
	})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
