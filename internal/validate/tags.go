// internal/validate/tags.go
//
// go-playground/validator integration.
//
// Context
// -------
// Page structs (wizard.Login, wizard.Biodata) carry `validate:"…"` tags that
// name the predicates in validate.go.  Struct runs every rule and reports the
// failing fields by their `form` tag, which is also the error-slot key the
// presenter uses.
//
// Registered tags
// ---------------
//   • email_shape – IsValidEmail
//   • nik         – IsValidNationalID
//   • npwp        – IsValidTaxID
//   • notblank    – IsNonBlank

package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError names one failing field and the tag that rejected it.
type FieldError struct {
	Field string // form tag, e.g. "nik"
	Tag   string // validator tag, e.g. "nik"
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	rules := map[string]func(string) bool{
		"email_shape": IsValidEmail,
		"nik":         IsValidNationalID,
		"npwp":        IsValidTaxID,
		"notblank":    IsNonBlank,
	}
	for tag, fn := range rules {
		fn := fn
		// Registration only fails on empty tags or nil funcs.
		_ = val.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
	}
	return val
}

// Struct validates s and returns the failing fields in declaration order.
// A nil slice means s passed.  The error is non-nil only for programming
// mistakes such as passing a non-struct.
func Struct(s any) ([]FieldError, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out, nil
}

// Failed returns the failing field names of s as a set.
func Failed(s any) (map[string]bool, error) {
	fes, err := Struct(s)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(fes))
	for _, fe := range fes {
		set[fe.Field] = true
	}
	return set, nil
}
