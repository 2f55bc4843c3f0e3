package wizard

// Presenter shows or clears the inline error next to a named input.  The
// wizard depends only on this capability; internal/form provides the HTML
// implementation.  Implementations panic when field has no error slot,
// since that is a wiring bug rather than a user error.
type Presenter interface {
	MarkInvalid(field, msg string)
	MarkValid(field string)
}

// ShowError marks field invalid with msg.  It always returns false so the
// result can be folded into a validity flag.
func ShowError(p Presenter, field, msg string) bool {
	p.MarkInvalid(field, msg)
	return false
}

// ClearError removes any error on field.  It always returns true and is
// safe to call repeatedly.
func ClearError(p Presenter, field string) bool {
	p.MarkValid(field)
	return true
}

type nopPresenter struct{}

func (nopPresenter) MarkInvalid(string, string) {}
func (nopPresenter) MarkValid(string)           {}
