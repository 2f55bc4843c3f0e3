// internal/form/submit.go
//
// Survey – Forms subsystem: POST decoding.
//
// Context
//   Handlers want one call that parses the body, checks the CSRF token, and
//   hands back the values.  Decode does that; the typed helpers below turn
//   the values into the wizard's page structs.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanizio/survey/internal/wizard"
)

// ErrCSRF is returned by Decode when the token is missing, forged, or stale.
var ErrCSRF = errors.New("security token invalid, please refresh and try again")

// maxBody caps a single form POST.
const maxBody = 64 << 10

// Decode parses r's form body and verifies its CSRF token.
func Decode(w http.ResponseWriter, r *http.Request, c *CSRF) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if !c.Verify(r.PostForm.Get(TokenField)) {
		return nil, ErrCSRF
	}
	return r.PostForm, nil
}

// BiodataFrom maps the biodata page inputs.
func BiodataFrom(v url.Values) wizard.Biodata {
	return wizard.Biodata{
		NationalID:  v.Get(wizard.FieldNationalID),
		FullName:    v.Get(wizard.FieldFullName),
		BirthPlace:  v.Get(wizard.FieldBirthPlace),
		BirthDate:   v.Get(wizard.FieldBirthDate),
		Institution: v.Get(wizard.FieldInstitution),
		TaxID:       v.Get(wizard.FieldTaxID),
	}
}

// Ratings extracts the radio choices for the given question IDs.  Questions
// left blank are skipped; a non-numeric value is reported as score 0 so the
// wizard rejects it.
func Ratings(v url.Values, questions []wizard.Question) map[string]int {
	out := make(map[string]int)
	for _, q := range questions {
		raw := strings.TrimSpace(v.Get(q.ID))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		out[q.ID] = n
	}
	return out
}
