package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition is wrapped by every *TransitionError.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrWrongStep means an operation was called while another page is
	// visible, e.g. SubmitBiodata on the login page.
	ErrWrongStep = errors.New("operation not available on current step")

	ErrOutOfOrder      = errors.New("response written out of order")
	ErrAlreadyRecorded = errors.New("response field already recorded")
	ErrNotSubmitted    = errors.New("survey not submitted yet")
	ErrUnknownQuestion = errors.New("unknown survey question")
	ErrScoreRange      = errors.New("rating score out of range")
)

// Alert texts shown as a blocking message.
const (
	AlertLoginFailed  = "Terjadi kesalahan saat login. Silakan coba lagi."
	AlertSubmitFailed = "Terjadi kesalahan saat mengirim survey. Silakan coba lagi."
	AlertIncomplete   = "Harap jawab semua pertanyaan survey sebelum melanjutkan."
)

// TransitionError reports a move the transition table does not allow.
type TransitionError struct {
	From, To Step
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s → %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError is one inline message next to a named input.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries every field that failed on a page.  It blocks
// step advancement; the page stays in place.
type ValidationError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("%s validation failed: %s", e.Step, strings.Join(names, ", "))
}

// Has reports whether field is among the failures.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// IncompleteError lists survey questions without a rating.
type IncompleteError struct {
	Questions []string // IDs from Wizard, texts from Response
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("survey incomplete: %d unanswered", len(e.Questions))
}

// Alert returns the blocking message for the user.
func (e *IncompleteError) Alert() string { return AlertIncomplete }

// TransportError wraps a failed remote call.  The user retries manually;
// nothing is retried automatically.
type TransportError struct {
	Step Step
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s remote call: %v", e.Step, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Alert returns the blocking message for the user.
func (e *TransportError) Alert() string {
	if e.Step == StepSurvey {
		return AlertSubmitFailed
	}
	return AlertLoginFailed
}

// Alerter is satisfied by errors that carry a user-facing alert.
type Alerter interface {
	Alert() string
}

// AlertOf returns the alert text carried by err, if any.
func AlertOf(err error) (string, bool) {
	var a Alerter
	if errors.As(err, &a) {
		return a.Alert(), true
	}
	return "", false
}
