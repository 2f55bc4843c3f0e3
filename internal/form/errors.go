// internal/form/errors.go
//
// Survey – Forms subsystem: inline error slots.
//
// Context
//   Every input on a survey page has an error slot rendered right after it,
//   and every question has one on its card.  Errors tracks which slots are
//   in the error state and what message each shows, so the renderer can add
//   the `error` class to the input and fill the slot on the next render.
//
//   Errors implements wizard.Presenter.  The set of slots is fixed when the
//   value is built from a definition; marking a name outside that set is a
//   wiring bug and panics.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"sync"

	"github.com/yanizio/survey/internal/wizard"
)

var _ wizard.Presenter = (*Errors)(nil)

// ErrorField describes a single validation failure so the template can render
// a field-level message.
type ErrorField struct {
	Name    string // field name
	Message string // user-facing message
}

// Errors is the per-session error slot table.  Safe for concurrent use.
type Errors struct {
	mu    sync.Mutex
	order []string
	slots map[string]*slot
}

type slot struct {
	invalid bool
	msg     string
}

// NewErrors returns a table with one empty slot per name.
func NewErrors(names ...string) *Errors {
	e := &Errors{slots: make(map[string]*slot, len(names))}
	for _, n := range names {
		if _, dup := e.slots[n]; dup {
			continue
		}
		e.order = append(e.order, n)
		e.slots[n] = &slot{}
	}
	return e
}

// MarkInvalid implements wizard.Presenter.
func (e *Errors) MarkInvalid(field, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.mustSlot(field)
	s.invalid, s.msg = true, msg
}

// MarkValid implements wizard.Presenter.
func (e *Errors) MarkValid(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.mustSlot(field)
	s.invalid, s.msg = false, ""
}

// Invalid reports whether field is in the error state.
func (e *Errors) Invalid(field string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.slots[field]
	return ok && s.invalid
}

// Message returns the text in field's slot.
func (e *Errors) Message(field string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.slots[field]; ok {
		return s.msg
	}
	return ""
}

// Fields lists the slots currently in the error state, in slot order.
func (e *Errors) Fields() []ErrorField {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []ErrorField
	for _, n := range e.order {
		if s := e.slots[n]; s.invalid {
			out = append(out, ErrorField{Name: n, Message: s.msg})
		}
	}
	return out
}

func (e *Errors) mustSlot(field string) *slot {
	s, ok := e.slots[field]
	if !ok {
		panic(fmt.Sprintf("form: no error slot for field %q", field))
	}
	return s
}
