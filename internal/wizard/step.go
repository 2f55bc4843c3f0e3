// internal/wizard/step.go
//
// Survey – step flow controller.
//
// Context
//   The survey is a four-page wizard: login, biodata, survey, and success.
//   Exactly one page is visible at a time and the order is strictly forward.
//   Flow is a small finite-state machine over Step with an explicit
//   transition table.  Any jump the table does not list (skipping, going
//   back, re-entering the same page, or leaving the terminal page) fails
//   with a *TransitionError that wraps ErrInvalidTransition.
//
//   Indicator mirrors the progress bar at the top of every page: four step
//   markers joined by three segments.
//
//------------------------------------------------------------------------------

package wizard

import (
	"fmt"
	"strings"
)

// Step identifies one page of the wizard.
type Step int

const (
	StepLogin Step = iota
	StepBiodata
	StepSurvey
	StepSuccess
)

// Steps lists every step in display order.
var Steps = []Step{StepLogin, StepBiodata, StepSurvey, StepSuccess}

var stepNames = [...]string{"login", "biodata", "survey", "success"}

// String returns the page name used in markup and logs.
func (s Step) String() string {
	if s < StepLogin || s > StepSuccess {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep converts a page name back into a Step.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if strings.EqualFold(n, name) {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}

// transitions is the only source of truth for legal moves.  The terminal
// step has no outgoing edges.
var transitions = map[Step]map[Step]bool{
	StepLogin:   {StepBiodata: true},
	StepBiodata: {StepSurvey: true},
	StepSurvey:  {StepSuccess: true},
	StepSuccess: {},
}

// CanTransition reports whether from → to is listed in the table.
func CanTransition(from, to Step) bool {
	return transitions[from][to]
}

// Flow tracks the visible page.  The zero value starts at StepLogin.  Flow
// is not safe for concurrent use; Wizard serialises access.
type Flow struct {
	current Step
}

// NewFlow returns a Flow positioned on the login page.
func NewFlow() *Flow { return &Flow{current: StepLogin} }

// Current returns the visible step.
func (f *Flow) Current() Step { return f.current }

// Visible reports whether s is the one visible page.
func (f *Flow) Visible(s Step) bool { return f.current == s }

// Terminal reports whether the flow reached the success page.
func (f *Flow) Terminal() bool { return len(transitions[f.current]) == 0 }

// GoTo moves to target when the table allows it.
func (f *Flow) GoTo(target Step) error {
	if !CanTransition(f.current, target) {
		return &TransitionError{From: f.current, To: target}
	}
	f.current = target
	return nil
}

// Advance moves to the single successor of the current step.
func (f *Flow) Advance() error {
	for _, s := range Steps {
		if CanTransition(f.current, s) {
			f.current = s
			return nil
		}
	}
	return &TransitionError{From: f.current, To: f.current + 1}
}

// Indicator returns the progress-bar state for the current step.
func (f *Flow) Indicator() Indicator { return IndicatorFor(f.current) }

// -----------------------------------------------------------------------------
// Progress indicator
// -----------------------------------------------------------------------------

// Marker is the visual state of one step bubble.
type Marker string

const (
	MarkerPending   Marker = ""
	MarkerActive    Marker = "active"
	MarkerCompleted Marker = "completed"
)

// Indicator holds four step markers and the three connecting segments.
// Segment i joins step i and step i+1.
type Indicator struct {
	Steps    [4]Marker
	Segments [3]bool
}

// IndicatorFor computes the indicator when cur is visible: earlier steps
// are completed, cur is active, later steps stay pending.
func IndicatorFor(cur Step) Indicator {
	var ind Indicator
	for i := range ind.Steps {
		switch {
		case Step(i) < cur:
			ind.Steps[i] = MarkerCompleted
		case Step(i) == cur:
			ind.Steps[i] = MarkerActive
		}
	}
	for i := range ind.Segments {
		ind.Segments[i] = Step(i) < cur
	}
	return ind
}
