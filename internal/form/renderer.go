// internal/form/renderer.go
//
// Survey – Forms subsystem: HTML renderer.
//
// Context
//   Given a parsed Definition this file turns one wizard page into safe HTML
//   markup.  Each input is written with its label and its error slot, the
//   survey page adds one rating card per question, and every page gets the
//   hidden CSRF input.  The page template wraps the result in its <form>
//   and adds the submit button.
//
// Workflow
//   •  RenderStep selects the page by wizard.Step and writes each field via
//      writeField, then the question cards via writeQuestion.
//   •  Inputs carry id="{name}" and their slot id="{name}-error".  An input
//      in the error state gets class="error" and its slot gets the message
//      and class "show".
//   •  Prefill restores typed values after a failed POST.  Password inputs
//      are never prefilled.
//   •  The result is template.HTML so the page template does not
//      double-escape the markup.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"

	"github.com/yanizio/survey/internal/wizard"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// Prefill provides field values keyed by field name.
	Prefill map[string]string
	// Selected maps question ID to the chosen score.
	Selected map[string]int
	// Errors supplies the inline error state.  Nil renders clean slots.
	Errors *Errors
	// Token is the CSRF token for the hidden input.
	Token string
}

// RenderStep returns the markup for page s of def.
func RenderStep(def *Definition, s wizard.Step, opts RenderOptions) (template.HTML, error) {
	step, ok := def.Step(s)
	if !ok {
		return "", fmt.Errorf("RenderStep: step %q not found in survey %q", s, def.ID)
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="survey-form">` + "\n")

	if s == wizard.StepSurvey {
		for i := range def.Questions {
			writeQuestion(&buf, &def.Questions[i], def.Scale, opts)
		}
	}

	for i := range step.Fields {
		if err := writeField(&buf, &step.Fields[i], opts); err != nil {
			return "", err
		}
	}

	buf.WriteString(`<input type="hidden" name="` + TokenField + `" value="` + html.EscapeString(opts.Token) + `">` + "\n")
	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits one input with its label and error slot.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) error {
	name := html.EscapeString(f.Name)
	invalid, msg := slotState(opts.Errors, f.Name)
	val := opts.Prefill[f.Name]

	buf.WriteString(`<div class="form-group">` + "\n")
	buf.WriteString(`<label for="` + name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	attrs := `id="` + name + `" name="` + name + `"`
	if invalid {
		attrs += ` class="error" aria-invalid="true"`
	}
	if f.Placeholder != "" {
		attrs += ` placeholder="` + html.EscapeString(f.Placeholder) + `"`
	}
	if f.MaxLength > 0 {
		attrs += ` maxlength="` + strconv.Itoa(f.MaxLength) + `"`
	}
	attrs += ` aria-describedby="` + name + `-error"`

	switch f.Type {
	case "text", "email", "password", "date":
		buf.WriteString(`<input type="` + f.Type + `" ` + attrs)
		if f.Pattern != "" {
			buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
		}
		if val != "" && f.Type != "password" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")

	case "textarea":
		buf.WriteString(`<textarea ` + attrs + ` rows="4">` + html.EscapeString(val) + `</textarea>` + "\n")

	default:
		return fmt.Errorf("writeField: unsupported field type %q in field %s", f.Type, f.Name)
	}

	writeSlot(buf, f.Name, invalid, msg)
	buf.WriteString(`</div>` + "\n")
	return nil
}

// writeQuestion emits one rating card.  An unanswered card is flagged with
// the "unanswered" class.
func writeQuestion(buf *bytes.Buffer, q *QuestionDef, scale []ScaleDef, opts RenderOptions) {
	id := html.EscapeString(q.ID)
	invalid, msg := slotState(opts.Errors, q.ID)
	chosen := opts.Selected[q.ID]

	class := "survey-question"
	if invalid {
		class += " unanswered"
	}
	buf.WriteString(`<fieldset class="` + class + `" id="` + id + `">` + "\n")
	buf.WriteString(`<legend><h3>` + html.EscapeString(q.Text) + `</h3></legend>` + "\n")
	buf.WriteString(`<div class="rating-options">` + "\n")
	for _, opt := range scale {
		optID := fmt.Sprintf("%s-%d", q.ID, opt.Score)
		sel, checked := "", ""
		if chosen == opt.Score {
			sel, checked = " selected", " checked"
		}
		buf.WriteString(`<label class="rating-option` + sel + `" for="` + html.EscapeString(optID) + `">`)
		buf.WriteString(`<input type="radio" id="` + html.EscapeString(optID) + `" name="` + id +
			`" value="` + strconv.Itoa(opt.Score) + `"` + checked + `>`)
		buf.WriteString(`<span>` + html.EscapeString(opt.Label) + `</span></label>` + "\n")
	}
	buf.WriteString(`</div>` + "\n")
	writeSlot(buf, q.ID, invalid, msg)
	buf.WriteString(`</fieldset>` + "\n")
}

func writeSlot(buf *bytes.Buffer, name string, invalid bool, msg string) {
	class := "error-message"
	if invalid {
		class += " show"
	}
	buf.WriteString(`<span class="` + class + `" id="` + html.EscapeString(name) +
		`-error" aria-live="polite">` + html.EscapeString(msg) + `</span>` + "\n")
}

func slotState(e *Errors, name string) (bool, string) {
	if e == nil {
		return false, ""
	}
	return e.Invalid(name), e.Message(name)
}
