// components/survey/survey.go
//
// Survey component – the four-page respondent flow over HTTP.
//
// Context
//   One chi router serves the whole wizard.  Every request resolves the
//   caller's session from the cookie (creating one on first visit), acts on
//   its Wizard, and either redirects back to “/” (post/redirect/get) or
//   re-renders the visible page with inline errors and an alert banner.
//
// Routes
//   •  GET  /               – render the visible page.
//   •  POST /login          – email + password sign-in.
//   •  POST /login/google   – simulated third-party sign-in.
//   •  POST /biodata        – respondent details.
//   •  POST /survey/rating  – record one rating (progressive enhancement).
//   •  POST /survey         – ratings + comments, final submit.
//   •  GET  /download       – text report as an attachment.
//   •  GET  /share          – redirect to the pre-filled chat link.
//
//------------------------------------------------------------------------------

package survey

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/survey/internal/component"
	"github.com/yanizio/survey/internal/form"
	"github.com/yanizio/survey/internal/logger"
	"github.com/yanizio/survey/internal/metrics"
	"github.com/yanizio/survey/internal/requestinfo"
	"github.com/yanizio/survey/internal/session"
	"github.com/yanizio/survey/internal/view"
	"github.com/yanizio/survey/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the embedded page templates.
func Templates() fs.FS {
	sub, _ := fs.Sub(templateFS, "templates")
	return sub
}

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Deps bundles what the component needs from cmd/web.
type Deps struct {
	Definition *form.Definition
	Sessions   *session.Store
	CSRF       *form.CSRF
	View       *view.Renderer // nil → embedded templates
}

// Component serves the survey wizard.
type Component struct {
	def      *form.Definition
	sessions *session.Store
	csrf     *form.CSRF
	view     *view.Renderer
}

// New builds the component.
func New(d Deps) *Component {
	if d.View == nil {
		d.View = view.New(Templates())
	}
	return &Component{
		def:      d.Definition,
		sessions: d.Sessions,
		csrf:     d.CSRF,
		view:     d.View,
	}
}

// Factory returns a session.Factory creating wizards for def.  base
// carries the runtime knobs (caller, delays, clock, share target); the
// question list, scale, and messages come from def.
func Factory(def *form.Definition, base wizard.Config) session.Factory {
	return func() (*wizard.Wizard, *form.Errors) {
		cfg := base
		cfg.Questions = def.WizardQuestions()
		cfg.Scale = def.WizardScale()
		cfg.Messages = def.Messages()
		errs := form.NewErrors(def.Slots()...)
		return wizard.New(cfg, errs), errs
	}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "survey" }

// Pattern mounts the survey at the site root.
func (c *Component) Pattern() string { return "/" }

// Routes builds and returns the router mounted at “/”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handlePage)
	r.Post("/login", c.handleLogin)
	r.Post("/login/google", c.handleDemoLogin)
	r.Post("/biodata", c.handleBiodata)
	r.Post("/survey/rating", c.handleRating)
	r.Post("/survey", c.handleSurvey)
	r.Get("/download", c.handleDownload)
	r.Get("/share", c.handleShare)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handlePage(w http.ResponseWriter, r *http.Request) {
	ent := c.sessions.Resolve(w, r)
	c.render(w, r, ent, renderState{})
}

func (c *Component) handleLogin(w http.ResponseWriter, r *http.Request) {
	ent, v, ok := c.begin(w, r)
	if !ok {
		return
	}
	err := ent.Wizard.Login(r.Context(), v.Get(wizard.FieldEmail), v.Get(wizard.FieldPassword))
	c.finish(w, r, ent, v, err, "login")
}

func (c *Component) handleDemoLogin(w http.ResponseWriter, r *http.Request) {
	ent, _, ok := c.begin(w, r)
	if !ok {
		return
	}
	err := ent.Wizard.DemoLogin(r.Context())
	c.finish(w, r, ent, nil, err, "demo login")
}

func (c *Component) handleBiodata(w http.ResponseWriter, r *http.Request) {
	ent, v, ok := c.begin(w, r)
	if !ok {
		return
	}
	err := ent.Wizard.SubmitBiodata(form.BiodataFrom(v))
	c.finish(w, r, ent, v, err, "biodata")
}

// handleRating records a single choice and answers 204, so a script can
// save each click without a page load.
func (c *Component) handleRating(w http.ResponseWriter, r *http.Request) {
	ent, v, ok := c.begin(w, r)
	if !ok {
		return
	}
	score, err := strconv.Atoi(v.Get("score"))
	if err != nil {
		score = 0
	}
	if err := ent.Wizard.SelectRating(v.Get("question"), score); err != nil {
		status, _ := statusOf(err)
		c.logger(r).Infow("rating rejected", "session", ent.ID, "err", err)
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Component) handleSurvey(w http.ResponseWriter, r *http.Request) {
	ent, v, ok := c.begin(w, r)
	if !ok {
		return
	}
	posted := form.Ratings(v, ent.Wizard.Questions())
	for _, q := range ent.Wizard.Questions() {
		score, ok := posted[q.ID]
		if !ok {
			continue
		}
		if err := ent.Wizard.SelectRating(q.ID, score); err != nil {
			c.finish(w, r, ent, v, err, "survey")
			return
		}
	}
	err := ent.Wizard.SubmitSurvey(r.Context(), v.Get(wizard.FieldComments))
	c.finish(w, r, ent, v, err, "survey")
}

func (c *Component) handleDownload(w http.ResponseWriter, r *http.Request) {
	ent := c.sessions.Resolve(w, r)
	art, err := ent.Wizard.Download()
	if err != nil {
		status, alert := statusOf(err)
		c.render(w, r, ent, renderState{status: status, alert: alert})
		return
	}
	metrics.DownloadTotal.Inc()
	c.logger(r).Infow("report downloaded", "session", ent.ID, "file", art.Filename)

	h := w.Header()
	h.Set("Content-Type", art.ContentType)
	h.Set("Content-Disposition", `attachment; filename="`+art.Filename+`"`)
	h.Set("Content-Length", strconv.Itoa(len(art.Body)))
	h.Set("Cache-Control", "no-store")
	_, _ = w.Write(art.Body)
}

func (c *Component) handleShare(w http.ResponseWriter, r *http.Request) {
	ent := c.sessions.Resolve(w, r)
	link, err := ent.Wizard.Share()
	if err != nil {
		status, alert := statusOf(err)
		c.render(w, r, ent, renderState{status: status, alert: alert})
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// begin resolves the session and decodes the POST body.  On failure it has
// already written the response.
func (c *Component) begin(w http.ResponseWriter, r *http.Request) (*session.Entry, url.Values, bool) {
	ent := c.sessions.Resolve(w, r)
	v, err := form.Decode(w, r, c.csrf)
	if err == nil {
		return ent, v, true
	}

	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, form.ErrCSRF):
		c.logger(r).Warnw("csrf rejected", "session", ent.ID, "path", r.URL.Path)
		c.render(w, r, ent, renderState{status: http.StatusForbidden, alert: AlertCSRF})
	case errors.As(err, &tooBig):
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	}
	return nil, nil, false
}

// finish redirects to “/” on success or re-renders with the mapped status.
func (c *Component) finish(w http.ResponseWriter, r *http.Request, ent *session.Entry, v url.Values, err error, action string) {
	log := c.logger(r)
	if err == nil {
		log.Infow(action+" ok", "session", ent.ID, "step", ent.Wizard.Current().String())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	status, alert := statusOf(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		log.Errorw(action+" failed", "session", ent.ID, "err", err)
	} else {
		log.Infow(action+" rejected", "session", ent.ID, "status", status, "err", err)
	}
	c.render(w, r, ent, renderState{status: status, alert: alert, prefill: v})
}

// logger returns the request logger tagged with the client's device class.
func (c *Component) logger(r *http.Request) *zap.SugaredLogger {
	l := logger.FromContext(r.Context())
	if info := requestinfo.FromContext(r.Context()); info != nil {
		l = l.With("device", info.UA.Device)
	}
	return l
}
