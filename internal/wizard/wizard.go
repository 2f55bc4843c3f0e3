// internal/wizard/wizard.go
//
// Survey – wizard controller.
//
// Context
//   Wizard wires the pieces of one respondent's session together: it
//   validates a page, stores the page's data in the Response, and moves the
//   Flow forward.  Login and survey submission go through the remote Caller
//   first; biodata does not.
//
// Workflow
//   •  Login        – validate email + password, remote call, record, advance.
//   •  DemoLogin    – simulated Google sign-in with demo credentials.
//   •  SubmitBiodata – validate six fields, record, advance.
//   •  SelectRating – record one rating, any number of times.
//   •  SubmitSurvey – check every question is rated, remote call, finalize,
//                     advance to success.
//   •  Summary, Download, Share – available once submitted.
//
// Concurrency
//   A mutex guards Response and Flow.  Remote calls run outside the mutex
//   but inside the Gate, so a duplicate submit while one is pending fails
//   with remote.ErrBusy instead of racing.
//
//------------------------------------------------------------------------------

package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/survey/internal/metrics"
	"github.com/yanizio/survey/internal/remote"
	"github.com/yanizio/survey/internal/validate"
)

// Question is one Likert item shown on the survey page.
type Question struct {
	ID   string // input name and error slot
	Text string // display text and response key
}

// ScaleOption is one rating choice.
type ScaleOption struct {
	Score int
	Label string
}

// DefaultScale is the five-point agreement scale.
var DefaultScale = []ScaleOption{
	{1, "Sangat Tidak Setuju"},
	{2, "Tidak Setuju"},
	{3, "Netral"},
	{4, "Setuju"},
	{5, "Sangat Setuju"},
}

// Config bundles the inputs of New.  Zero values fall back to defaults.
type Config struct {
	Questions []Question
	Scale     []ScaleOption
	Messages  map[string]string // field → inline message overrides

	Caller      remote.Caller
	LoginDelay  time.Duration
	SubmitDelay time.Duration
	DemoDelay   time.Duration

	Now      func() time.Time
	Location *time.Location

	ShareBase    string
	ShareContact string

	Logger *zap.SugaredLogger
}

// Wizard is one respondent's survey session.  Safe for concurrent use.
type Wizard struct {
	cfg     Config
	present Presenter
	gate    *remote.Gate
	log     *zap.SugaredLogger

	mu   sync.Mutex
	resp *Response
	flow *Flow
}

// New returns a Wizard on the login page.  p may be nil when no inline
// errors need to be shown (e.g. API-only use).
func New(cfg Config, p Presenter) *Wizard {
	if cfg.Caller == nil {
		cfg.Caller = remote.NewSimulated(remote.DefaultFailureRate, nil)
	}
	if len(cfg.Scale) == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	msgs := make(map[string]string, len(DefaultMessages))
	for k, v := range DefaultMessages {
		msgs[k] = v
	}
	for k, v := range cfg.Messages {
		if v != "" {
			msgs[k] = v
		}
	}
	cfg.Messages = msgs
	if p == nil {
		p = nopPresenter{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.S()
	}

	return &Wizard{
		cfg:     cfg,
		present: p,
		gate:    remote.NewGate(),
		log:     log,
		resp:    NewResponse(),
		flow:    NewFlow(),
	}
}

/*──────────────────────────── read side ───────────────────────────────────*/

// Current returns the visible step.
func (w *Wizard) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flow.Current()
}

// Indicator returns the progress bar state.
func (w *Wizard) Indicator() Indicator {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flow.Indicator()
}

// Busy reports whether a remote call is pending.
func (w *Wizard) Busy() bool { return w.gate.Busy() }

// Questions returns the survey items in display order.
func (w *Wizard) Questions() []Question { return w.cfg.Questions }

// Scale returns the rating choices.
func (w *Wizard) Scale() []ScaleOption { return w.cfg.Scale }

// Selected returns the chosen score for question ID qid.
func (w *Wizard) Selected(qid string) (int, bool) {
	q, ok := w.question(qid)
	if !ok {
		return 0, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	rt, ok := w.resp.Rating(q.Text)
	return rt.Score, ok
}

// Credentials returns the recorded login part.
func (w *Wizard) Credentials() (Login, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resp.Login()
}

// Biodata returns the recorded biodata part.
func (w *Wizard) Biodata() (Biodata, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resp.Biodata()
}

// Snapshot exposes the whole response for inspection.  Development only.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.resp.snapshot()
	s.Step = w.flow.Current().String()
	return s
}

/*──────────────────────────── login ───────────────────────────────────────*/

// Login validates the credentials, performs the login round-trip, records
// them, and advances to biodata.
func (w *Wizard) Login(ctx context.Context, email, password string) error {
	return w.gate.Do(ctx, func(ctx context.Context) error {
		return w.login(ctx, Login{Email: email, Password: password})
	})
}

// DemoLogin stands in for a third-party sign-in: after DemoDelay it fills
// the demo credentials and runs the normal login.
func (w *Wizard) DemoLogin(ctx context.Context) error {
	return w.gate.Do(ctx, func(ctx context.Context) error {
		if w.cfg.DemoDelay > 0 {
			t := time.NewTimer(w.cfg.DemoDelay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
		return w.login(ctx, Login{Email: DemoEmail, Password: DemoPassword})
	})
}

func (w *Wizard) login(ctx context.Context, l Login) error {
	err := w.locked(func() error {
		if err := w.expect(StepLogin); err != nil {
			return err
		}
		return w.check(StepLogin, l, loginFields)
	})
	if err != nil {
		return err
	}

	if err := w.call(ctx, StepLogin, w.cfg.LoginDelay); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.resp.RecordLogin(l); err != nil {
		return err
	}
	return w.advance()
}

/*──────────────────────────── biodata ─────────────────────────────────────*/

// SubmitBiodata validates and records the biodata page, then advances to
// the survey.
func (w *Wizard) SubmitBiodata(b Biodata) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepBiodata); err != nil {
		return err
	}
	if err := w.check(StepBiodata, b, biodataFields); err != nil {
		return err
	}
	if err := w.resp.RecordBiodata(b); err != nil {
		return err
	}
	return w.advance()
}

/*──────────────────────────── survey ──────────────────────────────────────*/

// SelectRating records score for question ID qid, replacing any earlier
// choice for the same question.
func (w *Wizard) SelectRating(qid string, score int) error {
	q, ok := w.question(qid)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, qid)
	}
	opt, ok := w.scaleOption(score)
	if !ok {
		return fmt.Errorf("%w: %d", ErrScoreRange, score)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.expect(StepSurvey); err != nil {
		return err
	}
	return w.resp.RecordRating(q.Text, Rating{Score: opt.Score, Label: opt.Label})
}

// SubmitSurvey checks that every question is rated, performs the submit
// round-trip, stores the comments and timestamp, and advances to success.
// Unanswered questions are marked on the presenter and reported as
// *IncompleteError.
func (w *Wizard) SubmitSurvey(ctx context.Context, comments string) error {
	return w.gate.Do(ctx, func(ctx context.Context) error {
		var missing []string
		err := w.locked(func() error {
			if err := w.expect(StepSurvey); err != nil {
				return err
			}
			for _, q := range w.cfg.Questions {
				if _, ok := w.resp.Rating(q.Text); ok {
					ClearError(w.present, q.ID)
					continue
				}
				ShowError(w.present, q.ID, "")
				missing = append(missing, q.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			metrics.ValidationFailureTotal.WithLabelValues("survey").Inc()
			return &IncompleteError{Questions: missing}
		}

		ts := w.cfg.Now()
		if err := w.call(ctx, StepSurvey, w.cfg.SubmitDelay); err != nil {
			return err
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		if err := w.resp.Finalize(comments, ts, w.questionTexts()); err != nil {
			return err
		}
		return w.advance()
	})
}

/*──────────────────────────── success ─────────────────────────────────────*/

// Summary renders the report.  Each call stamps a fresh survey ID.
func (w *Wizard) Summary() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Summary(w.resp, w.cfg.Now, w.cfg.Location)
}

// Download packages the report as a text file.
func (w *Wizard) Download() (Artifact, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	text, err := Summary(w.resp, w.cfg.Now, w.cfg.Location)
	if err != nil {
		return Artifact{}, err
	}
	bio, _ := w.resp.Biodata()
	return NewArtifact(bio.NationalID, text), nil
}

// Share returns the pre-filled messaging link.
func (w *Wizard) Share() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.resp.Submitted() {
		return "", ErrNotSubmitted
	}
	bio, _ := w.resp.Biodata()
	return ShareLink(w.cfg.ShareBase, w.cfg.ShareContact, bio), nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// locked runs fn under mu, unlocking even if a Presenter panics.
func (w *Wizard) locked(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn()
}

// expect fails unless want is the visible step.  Caller holds mu.
func (w *Wizard) expect(want Step) error {
	if cur := w.flow.Current(); cur != want {
		return fmt.Errorf("%w: on %s, need %s", ErrWrongStep, cur, want)
	}
	return nil
}

// check validates page against fields, updating the presenter for each
// field in order.  Caller holds mu.
func (w *Wizard) check(step Step, page any, fields []string) error {
	failed, err := validate.Failed(page)
	if err != nil {
		return err
	}

	var out []FieldError
	for _, f := range fields {
		if !failed[f] {
			ClearError(w.present, f)
			continue
		}
		msg := w.cfg.Messages[f]
		ShowError(w.present, f, msg)
		out = append(out, FieldError{Field: f, Message: msg})
		metrics.ValidationFailureTotal.WithLabelValues(f).Inc()
	}
	if len(out) > 0 {
		return &ValidationError{Step: step, Fields: out}
	}
	return nil
}

// call runs one remote round-trip and records its outcome.
func (w *Wizard) call(ctx context.Context, step Step, delay time.Duration) error {
	if _, err := w.cfg.Caller.Call(ctx, delay); err != nil {
		metrics.RemoteCallTotal.WithLabelValues(step.String(), "failed").Inc()
		w.log.Warnw("remote call failed", "step", step.String(), "err", err)
		return &TransportError{Step: step, Err: err}
	}
	metrics.RemoteCallTotal.WithLabelValues(step.String(), "ok").Inc()
	return nil
}

// advance moves the flow forward.  Caller holds mu.
func (w *Wizard) advance() error {
	if err := w.flow.Advance(); err != nil {
		return err
	}
	cur := w.flow.Current()
	metrics.StepTransitionTotal.WithLabelValues(cur.String()).Inc()
	w.log.Debugw("step advanced", "step", cur.String())
	return nil
}

func (w *Wizard) question(qid string) (Question, bool) {
	for _, q := range w.cfg.Questions {
		if q.ID == qid {
			return q, true
		}
	}
	return Question{}, false
}

func (w *Wizard) scaleOption(score int) (ScaleOption, bool) {
	for _, o := range w.cfg.Scale {
		if o.Score == score {
			return o, true
		}
	}
	return ScaleOption{}, false
}

func (w *Wizard) questionTexts() []string {
	out := make([]string, len(w.cfg.Questions))
	for i, q := range w.cfg.Questions {
		out[i] = q.Text
	}
	return out
}
