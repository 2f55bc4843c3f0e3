// internal/wizard/response.go
//
// Survey – response store.
//
// Context
//   Response is the single record a respondent builds while walking the
//   wizard: login, then biodata, then survey ratings, then the submission
//   timestamp.  Each part has one typed writer and the writers enforce the
//   population order.  A repeated write fails with ErrAlreadyRecorded; an
//   early one fails with ErrOutOfOrder.
//
//   Ratings are the one incremental part.  The respondent may re-select a
//   question any number of times before submitting; the question keeps the
//   position of its first selection, which is also the order the summary
//   lists them in.
//
//   Nothing here is persisted.  A Response lives as long as its session.
//
//------------------------------------------------------------------------------

package wizard

import (
	"time"
)

// Login holds the credentials typed on the login page.  The password is
// cosmetic: it is never checked for strength nor hashed.
type Login struct {
	Email    string `json:"email"    form:"email"    validate:"email_shape"`
	Password string `json:"password" form:"password" validate:"notblank"`
}

// Biodata holds the respondent's identity fields.
type Biodata struct {
	NationalID  string `json:"nik"          form:"nik"           validate:"nik"`
	FullName    string `json:"nama"         form:"nama"          validate:"notblank"`
	BirthPlace  string `json:"tempatLahir"  form:"tempat-lahir"  validate:"notblank"`
	BirthDate   string `json:"tanggalLahir" form:"tanggal-lahir" validate:"notblank"`
	Institution string `json:"instansi"     form:"instansi"      validate:"notblank"`
	TaxID       string `json:"npwp"         form:"npwp"          validate:"npwp"`
}

// Rating is one Likert answer.
type Rating struct {
	Score int    `json:"value"`
	Label string `json:"text"`
}

// Answer pairs a question text with its rating.
type Answer struct {
	Question string `json:"question"`
	Rating   Rating `json:"rating"`
}

// Response is the survey record of one respondent.  It is not safe for
// concurrent use; Wizard owns it and serialises access.
type Response struct {
	login   *Login
	biodata *Biodata

	order    []string
	ratings  map[string]Rating
	comments string

	submitted bool
	timestamp time.Time
}

// NewResponse returns an empty record.
func NewResponse() *Response {
	return &Response{ratings: make(map[string]Rating)}
}

/*──────────────────────────── writers ─────────────────────────────────────*/

// RecordLogin stores the login part.  It is the first write.
func (r *Response) RecordLogin(l Login) error {
	if r.login != nil {
		return ErrAlreadyRecorded
	}
	r.login = &l
	return nil
}

// RecordBiodata stores the biodata part.  Login must be recorded first.
func (r *Response) RecordBiodata(b Biodata) error {
	if r.login == nil {
		return ErrOutOfOrder
	}
	if r.biodata != nil {
		return ErrAlreadyRecorded
	}
	r.biodata = &b
	return nil
}

// RecordRating sets or replaces the rating for question.  Biodata must be
// recorded first and the survey must not be submitted yet.
func (r *Response) RecordRating(question string, rt Rating) error {
	if r.biodata == nil {
		return ErrOutOfOrder
	}
	if r.submitted {
		return ErrAlreadyRecorded
	}
	if _, seen := r.ratings[question]; !seen {
		r.order = append(r.order, question)
	}
	r.ratings[question] = rt
	return nil
}

// Finalize seals the survey part with the free-text comments and the
// submission time.  Every question in questions must already be rated.
func (r *Response) Finalize(comments string, ts time.Time, questions []string) error {
	if r.biodata == nil {
		return ErrOutOfOrder
	}
	if r.submitted {
		return ErrAlreadyRecorded
	}
	if missing := r.Missing(questions); len(missing) > 0 {
		return &IncompleteError{Questions: missing}
	}
	r.comments = comments
	r.timestamp = ts
	r.submitted = true
	return nil
}

/*──────────────────────────── readers ─────────────────────────────────────*/

// Login returns the login part and whether it is recorded.
func (r *Response) Login() (Login, bool) {
	if r.login == nil {
		return Login{}, false
	}
	return *r.login, true
}

// Biodata returns the biodata part and whether it is recorded.
func (r *Response) Biodata() (Biodata, bool) {
	if r.biodata == nil {
		return Biodata{}, false
	}
	return *r.biodata, true
}

// Rating returns the rating of question, if any.
func (r *Response) Rating(question string) (Rating, bool) {
	rt, ok := r.ratings[question]
	return rt, ok
}

// Answers returns the ratings in first-selection order.
func (r *Response) Answers() []Answer {
	out := make([]Answer, 0, len(r.order))
	for _, q := range r.order {
		out = append(out, Answer{Question: q, Rating: r.ratings[q]})
	}
	return out
}

// Missing returns the entries of questions that have no rating, in the
// order given.
func (r *Response) Missing(questions []string) []string {
	var out []string
	for _, q := range questions {
		if _, ok := r.ratings[q]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// Comments returns the free-text suggestions, empty when none were given.
func (r *Response) Comments() string { return r.comments }

// Submitted reports whether Finalize succeeded.
func (r *Response) Submitted() bool { return r.submitted }

// Timestamp returns the submission time; zero until Finalize succeeds.
func (r *Response) Timestamp() time.Time { return r.timestamp }

// Snapshot is a read-only copy for debugging and JSON output.
type Snapshot struct {
	Step      string   `json:"step"`
	Login     *Login   `json:"login,omitempty"`
	Biodata   *Biodata `json:"biodata,omitempty"`
	Survey    []Answer `json:"survey"`
	Comments  string   `json:"saran,omitempty"`
	Timestamp *string  `json:"timestamp"`
}

func (r *Response) snapshot() Snapshot {
	s := Snapshot{Survey: r.Answers(), Comments: r.comments}
	if l, ok := r.Login(); ok {
		s.Login = &l
	}
	if b, ok := r.Biodata(); ok {
		s.Biodata = &b
	}
	if r.submitted {
		ts := r.timestamp.UTC().Format(isoMillis)
		s.Timestamp = &ts
	}
	return s
}
