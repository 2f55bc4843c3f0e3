package remote

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned by Gate.Do while another call holds the gate.
var ErrBusy = errors.New("request already in progress")

// Gate is the busy lock around a pending call: the server-side twin of a
// disabled submit button.  A second Do while one is running fails fast with
// ErrBusy instead of queueing.
type Gate struct {
	sem  *semaphore.Weighted
	held atomic.Bool
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// Do runs fn while holding the gate.
func (g *Gate) Do(ctx context.Context, fn func(context.Context) error) error {
	if !g.sem.TryAcquire(1) {
		return ErrBusy
	}
	g.held.Store(true)
	defer func() {
		g.held.Store(false)
		g.sem.Release(1)
	}()
	return fn(ctx)
}

// Busy reports whether a call currently holds the gate.  The answer may be
// stale by the time the caller reads it; it is meant for rendering only.
// Busy never touches the semaphore, so polling it cannot make Do fail.
func (g *Gate) Busy() bool {
	return g.held.Load()
}
