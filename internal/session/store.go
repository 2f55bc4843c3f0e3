// internal/session/store.go
//
// Survey – in-memory session store.
//
// Context
//   Store maps a session ID to the respondent's Entry: the wizard plus the
//   error slot table the pages render from.  Entries live in a sync.Map and
//   carry a lastSeen stamp that the evictor uses for idle and LRU eviction.
//   Nothing is persisted; a restart starts every respondent over.
//
// Workflow
//   •  Resolve(w, r) returns the entry named by the cookie, or creates one
//      and sets the cookie.
//   •  A cookie naming an evicted session is replaced.  Concurrent requests
//      carrying the same stale ID share one new session through a
//      singleflight barrier, so parallel tabs do not fork.
//   •  Close stops the evictor.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/survey/internal/form"
	"github.com/yanizio/survey/internal/metrics"
	"github.com/yanizio/survey/internal/wizard"
)

// Static defaults.  Override through Options.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 10000
	EvictInterval = time.Minute
)

// Entry is one respondent's live state.
type Entry struct {
	ID     string
	Wizard *wizard.Wizard
	Errors *form.Errors

	lastSeen int64 // UnixNano
}

func (e *Entry) touch(now time.Time) { atomic.StoreInt64(&e.lastSeen, now.UnixNano()) }

// Factory builds the state for a new session.
type Factory func() (*wizard.Wizard, *form.Errors)

// Options tune the store.  Zero values fall back to the package defaults.
type Options struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
	Logger        *zap.SugaredLogger
}

// Store holds live sessions and evicts them on idle TTL or LRU pressure.
type Store struct {
	factory Factory
	log     *zap.SugaredLogger
	now     func() time.Time

	sfg singleflight.Group
	m   sync.Map // id → *Entry
	n   atomic.Int64

	idleTTL     time.Duration
	maxEntries  int
	evictTicker *time.Ticker
	stop        chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// NewStore constructs a Store and starts the background evictor.
func NewStore(opts Options, factory Factory) *Store {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = IdleTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = MaxEntries
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = EvictInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.S()
	}
	s := &Store{
		factory:     factory,
		log:         opts.Logger,
		now:         time.Now,
		idleTTL:     opts.IdleTTL,
		maxEntries:  opts.MaxEntries,
		evictTicker: time.NewTicker(opts.EvictInterval),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Get returns the live entry for id and marks it as seen.
func (s *Store) Get(id string) (*Entry, bool) {
	v, ok := s.m.Load(id)
	if !ok {
		return nil, false
	}
	ent := v.(*Entry)
	ent.touch(s.now())
	return ent, true
}

// Create starts a new session.
func (s *Store) Create() *Entry {
	w, errs := s.factory()
	ent := &Entry{ID: uuid.NewString(), Wizard: w, Errors: errs}
	ent.touch(s.now())
	s.m.Store(ent.ID, ent)
	s.n.Add(1)
	metrics.SessionCreateTotal.Inc()
	metrics.ActiveSessions.Inc()
	s.log.Debugw("session created", "session", ent.ID)
	return ent
}

// Resolve returns the session named by r's cookie, creating one (and
// setting the cookie on w) when there is none.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) *Entry {
	id, ok := cookieID(r)
	if ok {
		if ent, hit := s.Get(id); hit {
			setCookie(w, r, ent.ID, s.idleTTL)
			return ent
		}
		v, _, _ := s.sfg.Do(id, func() (any, error) {
			return s.Create(), nil
		})
		ent := v.(*Entry)
		setCookie(w, r, ent.ID, s.idleTTL)
		return ent
	}

	ent := s.Create()
	setCookie(w, r, ent.ID, s.idleTTL)
	return ent
}

// Lookup returns the session named by r's cookie without creating one.
func (s *Store) Lookup(r *http.Request) (*Entry, bool) {
	id, ok := cookieID(r)
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// Delete drops a session.
func (s *Store) Delete(id string) bool {
	if _, ok := s.m.LoadAndDelete(id); !ok {
		return false
	}
	s.n.Add(-1)
	metrics.ActiveSessions.Dec()
	return true
}

// Len reports the number of live sessions.
func (s *Store) Len() int { return int(s.n.Load()) }

// Close stops the evictor and waits for it to exit.  Safe to call twice.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.evictTicker.Stop()
		close(s.stop)
		<-s.done
	})
}
