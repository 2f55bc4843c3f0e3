package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/yanizio/survey/internal/form"
	"github.com/yanizio/survey/internal/wizard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStore(t *testing.T, opts Options) *Store {
	t.Helper()
	opts.Logger = zap.NewNop().Sugar()
	s := NewStore(opts, func() (*wizard.Wizard, *form.Errors) {
		errs := form.NewErrors("email", "password")
		return wizard.New(wizard.Config{Logger: opts.Logger}, errs), errs
	})
	t.Cleanup(s.Close)
	return s
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	require.FailNow(t, "no session cookie set")
	return nil
}

func TestResolve_CreatesAndResumes(t *testing.T) {
	s := newStore(t, Options{})

	rec := httptest.NewRecorder()
	first := s.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := sessionCookie(t, rec)
	assert.Equal(t, first.ID, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 1, s.Len())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	again := s.Resolve(httptest.NewRecorder(), req)
	assert.Same(t, first, again)
	assert.Equal(t, 1, s.Len())
}

func TestResolve_ReplacesMalformedCookie(t *testing.T) {
	s := newStore(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	ent := s.Resolve(rec, req)

	assert.NotEqual(t, "../../etc/passwd", ent.ID)
	assert.Equal(t, ent.ID, sessionCookie(t, rec).Value)
}

func TestResolve_StaleCookieSharesOneSession(t *testing.T) {
	s := newStore(t, Options{})
	stale := "6f1c1d0e-3a57-4e8b-9b0a-2f0d8c9e4a11"

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: stale})
			ids[i] = s.Resolve(httptest.NewRecorder(), req).ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.NotEqual(t, stale, id)
	}
	// Requests that overlapped collapse; at most one per request otherwise.
	assert.LessOrEqual(t, s.Len(), len(ids))
	assert.GreaterOrEqual(t, s.Len(), 1)
}

func TestEvict_Idle(t *testing.T) {
	s := newStore(t, Options{IdleTTL: time.Minute})
	base := time.Now()
	s.now = func() time.Time { return base }

	old := s.Create()
	s.now = func() time.Time { return base.Add(50 * time.Second) }
	fresh := s.Create()

	s.evict(base.Add(90 * time.Second))

	_, ok := s.m.Load(old.ID)
	assert.False(t, ok, "idle session kept")
	_, ok = s.m.Load(fresh.ID)
	assert.True(t, ok, "active session evicted")
	assert.Equal(t, 1, s.Len())
}

func TestEvict_LRUPressure(t *testing.T) {
	s := newStore(t, Options{MaxEntries: 2, IdleTTL: time.Hour})
	base := time.Now()

	var ents []*Entry
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }
		ents = append(ents, s.Create())
	}
	// Touch the oldest so it survives.
	s.now = func() time.Time { return base.Add(10 * time.Second) }
	_, ok := s.Get(ents[0].ID)
	require.True(t, ok)

	s.evict(base.Add(11 * time.Second))

	assert.Equal(t, 2, s.Len())
	for i, want := range []bool{true, false, false, true} {
		_, ok := s.m.Load(ents[i].ID)
		assert.Equal(t, want, ok, "entry %d", i)
	}
}

func TestDeleteAndClearCookie(t *testing.T) {
	s := newStore(t, Options{})
	ent := s.Create()

	assert.True(t, s.Delete(ent.ID))
	assert.False(t, s.Delete(ent.ID))
	assert.Zero(t, s.Len())

	rec := httptest.NewRecorder()
	ClearCookie(rec)
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)

	s.Close()
	s.Close()
}

func TestLookup_NeverCreates(t *testing.T) {
	s := newStore(t, Options{})

	_, ok := s.Lookup(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	ent := s.Create()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: ent.ID})
	got, ok := s.Lookup(req)
	require.True(t, ok)
	assert.Same(t, ent, got)
}
