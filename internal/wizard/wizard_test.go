package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/survey/internal/remote"
)

/*──────────────────────────── fixtures ────────────────────────────────────*/

// recorder is a Presenter that remembers which slots are currently invalid.
type recorder struct {
	mu      sync.Mutex
	invalid map[string]string
	cleared int
}

func newRecorder() *recorder { return &recorder{invalid: map[string]string{}} }

func (r *recorder) MarkInvalid(field, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid[field] = msg
}

func (r *recorder) MarkValid(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invalid, field)
	r.cleared++
}

func (r *recorder) message(field string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.invalid[field]
	return m, ok
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invalid)
}

// scripted is a Caller that fails on the call numbers listed in failOn.
type scripted struct {
	calls  atomic.Int32
	failOn map[int32]bool
}

func (s *scripted) Call(context.Context, time.Duration) (string, error) {
	n := s.calls.Add(1)
	if s.failOn[n] {
		return "", remote.ErrNetwork
	}
	return remote.SuccessToken, nil
}

var testQuestions = []Question{
	{ID: "q1", Text: "Lingkungan sekolah bersih dan terawat."},
	{ID: "q2", Text: "Fasilitas toilet memadai."},
	{ID: "q3", Text: "Tersedia ruang terbuka hijau."},
}

var validBiodata = Biodata{
	NationalID:  "3201234567890123",
	FullName:    "Siti Aminah",
	BirthPlace:  "Bandung",
	BirthDate:   "1990-08-05",
	Institution: "SMA Negeri 1 Bandung",
	TaxID:       "12.345.678.9-012.345",
}

func newWizard(t *testing.T, c remote.Caller, p Presenter) *Wizard {
	t.Helper()
	return New(Config{
		Questions: testQuestions,
		Caller:    c,
		Now:       func() time.Time { return time.UnixMilli(1723880000123) },
		Location:  time.FixedZone("WIB", 7*60*60),
		Logger:    zap.NewNop().Sugar(),
	}, p)
}

func toSurvey(t *testing.T, w *Wizard) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.Login(ctx, "siti@sekolah.sch.id", "rahasia"))
	require.NoError(t, w.SubmitBiodata(validBiodata))
	require.Equal(t, StepSurvey, w.Current())
}

/*──────────────────────────── scenarios ───────────────────────────────────*/

func TestWizard_HappyPath(t *testing.T) {
	rec := newRecorder()
	w := newWizard(t, &scripted{}, rec)
	ctx := context.Background()

	require.NoError(t, w.Login(ctx, "siti@sekolah.sch.id", "rahasia"))
	assert.Equal(t, StepBiodata, w.Current())

	require.NoError(t, w.SubmitBiodata(validBiodata))
	assert.Equal(t, StepSurvey, w.Current())

	require.NoError(t, w.SelectRating("q1", 4))
	require.NoError(t, w.SelectRating("q2", 5))
	require.NoError(t, w.SelectRating("q3", 3))

	score, ok := w.Selected("q2")
	require.True(t, ok)
	assert.Equal(t, 5, score)

	require.NoError(t, w.SubmitSurvey(ctx, "Tambah tempat sampah."))
	assert.Equal(t, StepSuccess, w.Current())
	assert.Zero(t, rec.count())

	text, err := w.Summary()
	require.NoError(t, err)
	assert.Contains(t, text, "Jawaban: Setuju (Skor: 4/5)")
	assert.Contains(t, text, "Tambah tempat sampah.")
	assert.True(t, strings.HasSuffix(text, "ID Survey: SURV890123000123"))

	art, err := w.Download()
	require.NoError(t, err)
	assert.Equal(t, "survey_lingkungan_3201234567890123.txt", art.Filename)
	assert.Equal(t, text, string(art.Body))

	link, err := w.Share()
	require.NoError(t, err)
	assert.Contains(t, link, "Siti%20Aminah%20dari%20SMA%20Negeri%201%20Bandung")

	snap := w.Snapshot()
	assert.Equal(t, "success", snap.Step)
	require.NotNil(t, snap.Timestamp)
	assert.Equal(t, "2024-08-17T07:33:20.123Z", *snap.Timestamp)
}

func TestWizard_LoginValidation(t *testing.T) {
	rec := newRecorder()
	caller := &scripted{}
	w := newWizard(t, caller, rec)

	err := w.Login(context.Background(), "not-an-email", "rahasia")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has(FieldEmail))
	assert.False(t, ve.Has(FieldPassword))

	msg, ok := rec.message(FieldEmail)
	require.True(t, ok)
	assert.Equal(t, "Format email tidak valid", msg)
	_, ok = rec.message(FieldPassword)
	assert.False(t, ok)

	assert.Equal(t, StepLogin, w.Current())
	assert.Zero(t, caller.calls.Load(), "invalid input never reaches the remote")

	// Fixing the field clears the error.
	require.NoError(t, w.Login(context.Background(), "siti@sekolah.sch.id", "rahasia"))
	assert.Zero(t, rec.count())
}

func TestWizard_BiodataReportsEveryField(t *testing.T) {
	rec := newRecorder()
	w := newWizard(t, &scripted{}, rec)
	require.NoError(t, w.Login(context.Background(), "siti@sekolah.sch.id", "x"))

	bad := validBiodata
	bad.NationalID = "12345"
	bad.FullName = "   "
	bad.TaxID = "123456789012345"

	err := w.SubmitBiodata(bad)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	var got []string
	for _, f := range ve.Fields {
		got = append(got, f.Field)
	}
	assert.Equal(t, []string{FieldNationalID, FieldFullName, FieldTaxID}, got)
	assert.Equal(t, 3, rec.count())
	assert.Equal(t, StepBiodata, w.Current())

	_, recorded := w.Biodata()
	assert.False(t, recorded)
}

func TestWizard_LoginTransportFailure(t *testing.T) {
	caller := &scripted{failOn: map[int32]bool{1: true}}
	w := newWizard(t, caller, nil)
	ctx := context.Background()

	err := w.Login(ctx, "siti@sekolah.sch.id", "rahasia")
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrNetwork)

	alert, ok := AlertOf(err)
	require.True(t, ok)
	assert.Equal(t, AlertLoginFailed, alert)

	assert.Equal(t, StepLogin, w.Current())
	_, recorded := w.Credentials()
	assert.False(t, recorded)

	// Manual retry goes through.
	require.NoError(t, w.Login(ctx, "siti@sekolah.sch.id", "rahasia"))
	assert.Equal(t, StepBiodata, w.Current())
}

func TestWizard_IncompleteSurvey(t *testing.T) {
	rec := newRecorder()
	caller := &scripted{}
	w := newWizard(t, caller, rec)
	toSurvey(t, w)
	before := caller.calls.Load()

	require.NoError(t, w.SelectRating("q2", 2))

	err := w.SubmitSurvey(context.Background(), "")
	var inc *IncompleteError
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, []string{"q1", "q3"}, inc.Questions)

	alert, ok := AlertOf(err)
	require.True(t, ok)
	assert.Equal(t, AlertIncomplete, alert)

	_, ok = rec.message("q1")
	assert.True(t, ok)
	_, ok = rec.message("q2")
	assert.False(t, ok)

	assert.Equal(t, before, caller.calls.Load())
	assert.Equal(t, StepSurvey, w.Current())
	assert.Nil(t, w.Snapshot().Timestamp)
}

func TestWizard_SubmitTransportFailure(t *testing.T) {
	caller := &scripted{failOn: map[int32]bool{2: true}}
	w := newWizard(t, caller, nil)
	toSurvey(t, w)
	for _, q := range testQuestions {
		require.NoError(t, w.SelectRating(q.ID, 3))
	}

	err := w.SubmitSurvey(context.Background(), "")
	alert, ok := AlertOf(err)
	require.True(t, ok)
	assert.Equal(t, AlertSubmitFailed, alert)
	assert.Equal(t, StepSurvey, w.Current())

	_, err = w.Summary()
	assert.ErrorIs(t, err, ErrNotSubmitted)
	_, err = w.Share()
	assert.ErrorIs(t, err, ErrNotSubmitted)

	require.NoError(t, w.SubmitSurvey(context.Background(), ""))
	assert.Equal(t, StepSuccess, w.Current())
}

func TestWizard_WrongStep(t *testing.T) {
	w := newWizard(t, &scripted{}, nil)

	assert.ErrorIs(t, w.SubmitBiodata(validBiodata), ErrWrongStep)
	assert.ErrorIs(t, w.SelectRating("q1", 3), ErrWrongStep)
	assert.ErrorIs(t, w.SubmitSurvey(context.Background(), ""), ErrWrongStep)
	assert.Equal(t, StepLogin, w.Current())
}

func TestWizard_SelectRatingRejectsUnknown(t *testing.T) {
	w := newWizard(t, &scripted{}, nil)
	toSurvey(t, w)

	assert.ErrorIs(t, w.SelectRating("q9", 3), ErrUnknownQuestion)
	assert.ErrorIs(t, w.SelectRating("q1", 0), ErrScoreRange)
	assert.ErrorIs(t, w.SelectRating("q1", 6), ErrScoreRange)
}

func TestWizard_BusyWhileCallPending(t *testing.T) {
	release := make(chan struct{})
	blocking := remote.CallerFunc(func(ctx context.Context, _ time.Duration) (string, error) {
		select {
		case <-release:
			return remote.SuccessToken, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	w := newWizard(t, blocking, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- w.Login(ctx, "siti@sekolah.sch.id", "rahasia") }()

	require.Eventually(t, w.Busy, time.Second, time.Millisecond)
	assert.ErrorIs(t, w.Login(ctx, "siti@sekolah.sch.id", "rahasia"), remote.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, w.Busy())
	assert.Equal(t, StepBiodata, w.Current())
}

func TestWizard_DemoLogin(t *testing.T) {
	w := New(Config{
		Questions: testQuestions,
		Caller:    &scripted{},
		DemoDelay: time.Millisecond,
		Logger:    zap.NewNop().Sugar(),
	}, nil)

	require.NoError(t, w.DemoLogin(context.Background()))
	l, ok := w.Credentials()
	require.True(t, ok)
	assert.Equal(t, DemoEmail, l.Email)
	assert.Equal(t, StepBiodata, w.Current())
}

func TestWizard_DemoLoginCancelled(t *testing.T) {
	w := New(Config{
		Caller:    &scripted{},
		DemoDelay: time.Hour,
		Logger:    zap.NewNop().Sugar(),
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.DemoLogin(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StepLogin, w.Current())
}

func TestWizard_MessageOverrides(t *testing.T) {
	rec := newRecorder()
	w := New(Config{
		Caller:   &scripted{},
		Messages: map[string]string{FieldEmail: "Email salah"},
		Logger:   zap.NewNop().Sugar(),
	}, rec)

	_ = w.Login(context.Background(), "x", "")
	msg, _ := rec.message(FieldEmail)
	assert.Equal(t, "Email salah", msg)
	msg, _ = rec.message(FieldPassword)
	assert.Equal(t, "Kata sandi harus diisi", msg)
}

func TestPresenterHelpers(t *testing.T) {
	rec := newRecorder()
	assert.False(t, ShowError(rec, "nik", "salah"))
	assert.True(t, ClearError(rec, "nik"))
	assert.True(t, ClearError(rec, "nik"))
	assert.Zero(t, rec.count())
	assert.Equal(t, 2, rec.cleared)
}

func TestWizard_LoginKeepsInputAsTyped(t *testing.T) {
	rec := newRecorder()
	caller := &scripted{}
	w := newWizard(t, caller, rec)

	err := w.Login(context.Background(), " siti@sekolah.sch.id ", "rahasia")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has(FieldEmail))
	assert.Equal(t, StepLogin, w.Current())
	assert.Zero(t, caller.calls.Load())
	assert.Nil(t, w.Snapshot().Login)
}

func TestWizard_CommentsStoredAsTyped(t *testing.T) {
	w := newWizard(t, &scripted{}, newRecorder())
	toSurvey(t, w)
	for _, q := range testQuestions {
		require.NoError(t, w.SelectRating(q.ID, 3))
	}

	require.NoError(t, w.SubmitSurvey(context.Background(), "  lebih banyak pohon \n"))
	assert.Equal(t, "  lebih banyak pohon \n", w.Snapshot().Comments)
}
