// internal/wizard/summary.go
//
// Survey – summary report.
//
// Context
//   Summary turns a submitted Response into the plain-text report offered
//   for download.  Dates follow the id-ID convention: d/m/yyyy for the
//   birth date and "d/m/yyyy, HH.MM.SS" for the submission time.
//
//   The survey ID is SURV + the last six characters of the NIK + the last
//   six digits of the generation-time epoch milliseconds.  It comes from
//   the clock passed in, not from the stored timestamp, so two calls give
//   two IDs.  Pass a fixed clock to make it repeatable.
//
//------------------------------------------------------------------------------

package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	summaryTitle    = "SURVEY LINGKUNGAN NASIONAL SEKOLAH"
	summaryAgency   = "Kementerian Pendidikan, Kebudayaan, Riset, dan Teknologi"
	summaryRule     = "============================================"
	surveyIDPrefix  = "SURV"
	surveyIDSegment = 6

	birthDateLayout = "2006-01-02"
	isoMillis       = "2006-01-02T15:04:05.000Z07:00"
)

// Summary renders the report for a submitted response.  now supplies the
// clock for the survey ID; loc is the display zone for the timestamp.
func Summary(r *Response, now func() time.Time, loc *time.Location) (string, error) {
	login, okL := r.Login()
	bio, okB := r.Biodata()
	if !okL || !okB || !r.Submitted() {
		return "", ErrNotSubmitted
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(summaryTitle)
	line(summaryAgency)
	line(summaryRule)
	line("")

	line("DATA RESPONDEN:")
	line("NIK: %s", bio.NationalID)
	line("Nama: %s", bio.FullName)
	line("Tempat/Tanggal Lahir: %s, %s", bio.BirthPlace, formatDate(bio.BirthDate))
	line("Instansi: %s", bio.Institution)
	line("NPWP: %s", bio.TaxID)
	line("Email: %s", login.Email)
	line("")

	line("HASIL SURVEY:")
	for _, a := range r.Answers() {
		line("%s", a.Question)
		line("Jawaban: %s (Skor: %d/5)", a.Rating.Label, a.Rating.Score)
		line("")
	}

	if c := r.Comments(); c != "" {
		line("SARAN DAN MASUKAN:")
		line("%s", c)
		line("")
	}

	line("Waktu Pengisian: %s", formatDateTime(r.Timestamp().In(loc)))
	b.WriteString("ID Survey: " + SurveyID(bio.NationalID, now()))

	return b.String(), nil
}

// SurveyID builds the report identifier from the NIK and a clock reading.
func SurveyID(nationalID string, at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	return surveyIDPrefix + lastN(nationalID, surveyIDSegment) + lastN(ms, surveyIDSegment)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// formatDate renders a YYYY-MM-DD value as d/m/yyyy.  Unparseable input is
// returned as typed.
func formatDate(raw string) string {
	d, err := time.Parse(birthDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%d/%d/%d", d.Day(), int(d.Month()), d.Year())
}

func formatDateTime(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d, %02d.%02d.%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}
