// internal/remote/remote.go
//
// Survey – remote call boundary.
//
// Context
//   The survey has no real backend.  Each step that would talk to a server
//   calls a Caller instead, and the default Caller is Simulated: it waits
//   for the requested delay, then fails with ErrNetwork on a uniform draw
//   below FailureRate (10% by default) or returns SuccessToken.
//
//   Callers treat this as the network edge.  A real client only has to
//   satisfy Caller; the wizard does not change.
//
//   The context is honoured so a shutting-down server does not hang on a
//   pending timer.  Users have no way to cancel a call, and nothing is
//   retried.
//
//------------------------------------------------------------------------------

package remote

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultDelay matches the login round-trip.
	DefaultDelay = time.Second

	// DefaultFailureRate is the share of simulated calls that fail.
	DefaultFailureRate = 0.1

	// SuccessToken is the value a successful simulated call resolves with.
	SuccessToken = "Success"
)

// ErrNetwork is the simulated transport failure.
var ErrNetwork = errors.New("network error")

// Caller is one round-trip to the (possibly fake) backend.
type Caller interface {
	Call(ctx context.Context, delay time.Duration) (string, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, delay time.Duration) (string, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, delay time.Duration) (string, error) {
	return f(ctx, delay)
}

// Simulated is a timed, randomly failing Caller.  Safe for concurrent use.
type Simulated struct {
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand // nil means the process-wide source
}

// NewSimulated returns a Simulated failing with probability failureRate.
// src may be nil; tests pass a seeded source for repeatable draws.
func NewSimulated(failureRate float64, src rand.Source) *Simulated {
	s := &Simulated{failureRate: failureRate}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// FailureRate returns the configured failure probability.
func (s *Simulated) FailureRate() float64 { return s.failureRate }

// Call waits delay and then resolves or fails.  A non-positive delay
// resolves on the next draw without waiting.
func (s *Simulated) Call(ctx context.Context, delay time.Duration) (string, error) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	if s.draw() < s.failureRate {
		return "", ErrNetwork
	}
	return SuccessToken, nil
}

func (s *Simulated) draw() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
