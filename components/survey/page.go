// components/survey/page.go
//
// Page model and error mapping for the survey component.
//
// Context
//   Every handler ends in render(): it collects the wizard state of the
//   caller's session into one page value and executes the template named
//   after the visible step.  Errors from the wizard decide the HTTP status
//   and the alert banner; inline field errors already live in the session's
//   form.Errors table, so the renderer picks them up without extra work.
//
//------------------------------------------------------------------------------

package survey

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/yanizio/survey/internal/form"
	"github.com/yanizio/survey/internal/head"
	"github.com/yanizio/survey/internal/remote"
	"github.com/yanizio/survey/internal/requestinfo"
	"github.com/yanizio/survey/internal/session"
	"github.com/yanizio/survey/internal/wizard"
)

// Alert texts owned by the HTTP layer.
const (
	AlertCSRF = "Sesi formulir telah berakhir. Silakan muat ulang halaman dan coba lagi."
	AlertBusy = "Permintaan sebelumnya masih diproses. Mohon tunggu sebentar."
	AlertFlow = "Halaman ini tidak tersedia pada tahap saat ini."
)

// stepView is one bubble of the progress bar.
type stepView struct {
	Number int
	Label  string
	Marker wizard.Marker
	Line   bool // segment to the next bubble is filled
	Last   bool
}

// page is the data handed to every template.
type page struct {
	Head     template.HTML
	Title    string
	Agency   string
	Step     string
	Heading  string
	Subtitle string
	Steps    []stepView
	Form     template.HTML
	Token    string
	Alert    string
	Busy     bool
	Summary  string
	Info     *requestinfo.RequestInfo
}

// renderState carries what a failed POST wants shown again.
type renderState struct {
	status  int
	alert   string
	prefill url.Values
}

// render builds the page for ent's visible step and writes it.
func (c *Component) render(w http.ResponseWriter, r *http.Request, ent *session.Entry, st renderState) {
	log := c.logger(r)
	if st.status == 0 {
		st.status = http.StatusOK
	}

	wz := ent.Wizard
	cur := wz.Current()
	ind := wz.Indicator()

	token, err := c.csrf.Generate()
	if err != nil {
		log.Errorw("csrf token", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p := page{
		Title:  c.def.Title,
		Agency: c.def.Agency,
		Step:   cur.String(),
		Token:  token,
		Alert:  st.alert,
		Busy:   wz.Busy(),
		Info:   requestinfo.FromContext(r.Context()),
	}

	for i, sd := range c.def.Steps {
		sv := stepView{Number: i + 1, Label: sd.Label, Last: i == len(c.def.Steps)-1}
		if i < len(ind.Steps) {
			sv.Marker = ind.Steps[i]
		}
		if i < len(ind.Segments) {
			sv.Line = ind.Segments[i]
		}
		p.Steps = append(p.Steps, sv)
	}

	if sd, ok := c.def.Step(cur); ok {
		p.Heading, p.Subtitle = sd.Title, sd.Subtitle
	}
	p.Head = head.New().
		SetTitle(p.Heading, c.def.Title).
		Meta("description", c.def.Agency).
		Meta("robots", "noindex, nofollow").
		Render()

	switch cur {
	case wizard.StepSuccess:
		if p.Summary, err = wz.Summary(); err != nil {
			log.Errorw("summary", "err", err)
		}
	default:
		opts := form.RenderOptions{
			Prefill:  prefill(st.prefill),
			Selected: c.selected(wz, st.prefill),
			Errors:   ent.Errors,
			Token:    token,
		}
		if p.Form, err = form.RenderStep(c.def, cur, opts); err != nil {
			log.Errorw("render step", "step", cur.String(), "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	if err := c.view.Render(w, st.status, cur.String(), p); err != nil {
		log.Errorw("render page", "step", cur.String(), "err", err)
	}
}

// selected merges recorded ratings with the radios of a failed POST.
func (c *Component) selected(wz *wizard.Wizard, posted url.Values) map[string]int {
	out := make(map[string]int)
	for _, q := range wz.Questions() {
		if n, ok := wz.Selected(q.ID); ok {
			out[q.ID] = n
		}
	}
	for qid, n := range form.Ratings(posted, wz.Questions()) {
		out[qid] = n
	}
	return out
}

// prefill flattens posted values for the renderer, dropping secrets.
func prefill(v url.Values) map[string]string {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for k := range v {
		if k == form.TokenField || k == wizard.FieldPassword {
			continue
		}
		out[k] = v.Get(k)
	}
	return out
}

// statusOf maps a wizard or form error to the response status and banner.
// Inline validation failures carry no banner; their slots speak for them.
func statusOf(err error) (int, string) {
	if alert, ok := wizard.AlertOf(err); ok {
		var te *wizard.TransportError
		if errors.As(err, &te) {
			return http.StatusBadGateway, alert
		}
		return http.StatusUnprocessableEntity, alert
	}

	var ve *wizard.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, ""
	case errors.Is(err, form.ErrCSRF):
		return http.StatusForbidden, AlertCSRF
	case errors.Is(err, remote.ErrBusy):
		return http.StatusConflict, AlertBusy
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrNotSubmitted),
		errors.Is(err, wizard.ErrOutOfOrder),
		errors.Is(err, wizard.ErrAlreadyRecorded):
		return http.StatusConflict, AlertFlow
	case errors.Is(err, wizard.ErrUnknownQuestion),
		errors.Is(err, wizard.ErrScoreRange):
		return http.StatusUnprocessableEntity, wizard.AlertIncomplete
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ""
	}
	return http.StatusInternalServerError, ""
}
