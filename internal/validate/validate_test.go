package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	cases := map[string]bool{
		"user@example.com":     true,
		"a.b@sub.domain.co.id": true,
		"bad-email":            false,
		"":                     false,
		"two@@example.com":     false,
		"no-dot@example":       false,
		"space in@example.com": false,
		"@example.com":         false,
		"user@.com":            false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidEmail(in), "IsValidEmail(%q)", in)
	}
}

func TestIsValidNationalID(t *testing.T) {
	assert.True(t, IsValidNationalID("1234567890123456"))
	assert.True(t, IsValidNationalID(strings.Repeat("0", 16)))

	for _, in := range []string{
		"",
		"123456789012345",    // 15
		"12345678901234567",  // 17
		"12345678901234a6",   // letter
		" 234567890123456",   // space
		"123456789012345６",   // fullwidth digit
		"١٢٣٤٥٦٧٨٩٠١٢٣٤٥٦", // Arabic-Indic digits
	} {
		assert.False(t, IsValidNationalID(in), "IsValidNationalID(%q)", in)
	}
}

func TestIsValidNationalID_AllSixteenDigitStrings(t *testing.T) {
	digits := "0123456789"
	for i := 0; i < 10; i++ {
		s := strings.Repeat(string(digits[i]), 8) + strings.Repeat(string(digits[9-i]), 8)
		assert.True(t, IsValidNationalID(s), s)
	}
}

func TestIsValidTaxID(t *testing.T) {
	assert.True(t, IsValidTaxID("12.345.678.9-012.345"))
	assert.True(t, IsValidTaxID("00.000.000.0-000.000"))

	for _, in := range []string{
		"",
		"123456789012345",
		"12.345.678.9.012.345",
		"12-345.678.9-012.345",
		"1.345.678.9-012.345",
		"12.345.678.99-012.345",
		"12.345.678.9-012.3456",
		"12.345.678.9-012.34a",
		" 12.345.678.9-012.345",
		"12.345.678.9-012.345 ",
		"12.345.678.9-012.34５",
	} {
		assert.False(t, IsValidTaxID(in), "IsValidTaxID(%q)", in)
	}
}

func TestIsNonBlank(t *testing.T) {
	assert.False(t, IsNonBlank(""))
	assert.False(t, IsNonBlank("   "))
	assert.False(t, IsNonBlank("\t\n"))
	assert.True(t, IsNonBlank("a"))
	assert.True(t, IsNonBlank("  a  "))
}

type page struct {
	Email string `form:"email" validate:"email_shape"`
	NIK   string `form:"nik" validate:"nik"`
	NPWP  string `form:"npwp" validate:"npwp"`
	Name  string `form:"nama" validate:"notblank"`
	Note  string
}

func TestStruct_ReportsFormNamesInOrder(t *testing.T) {
	fes, err := Struct(page{Email: "bad", NIK: "1", NPWP: "12.345.678.9-012.345", Name: " "})
	require.NoError(t, err)
	require.Len(t, fes, 3)
	assert.Equal(t, FieldError{Field: "email", Tag: "email_shape"}, fes[0])
	assert.Equal(t, FieldError{Field: "nik", Tag: "nik"}, fes[1])
	assert.Equal(t, FieldError{Field: "nama", Tag: "notblank"}, fes[2])
}

func TestStruct_Passes(t *testing.T) {
	fes, err := Struct(page{
		Email: "user@example.com",
		NIK:   "1234567890123456",
		NPWP:  "12.345.678.9-012.345",
		Name:  "Budi",
	})
	require.NoError(t, err)
	assert.Nil(t, fes)
}

func TestFailed_NonStruct(t *testing.T) {
	_, err := Failed("not a struct")
	assert.Error(t, err)
}
