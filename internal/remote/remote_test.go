package remote

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSimulated_NeverFails(t *testing.T) {
	s := NewSimulated(0, rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		tok, err := s.Call(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, SuccessToken, tok)
	}
}

func TestSimulated_AlwaysFails(t *testing.T) {
	s := NewSimulated(1, rand.NewPCG(1, 2))
	_, err := s.Call(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestSimulated_FailureRateIsRoughlyTenPercent(t *testing.T) {
	s := NewSimulated(DefaultFailureRate, rand.NewPCG(42, 7))
	const n = 20000
	var failed int
	for i := 0; i < n; i++ {
		if _, err := s.Call(context.Background(), 0); errors.Is(err, ErrNetwork) {
			failed++
		}
	}
	rate := float64(failed) / n
	assert.InDelta(t, 0.1, rate, 0.02)
}

func TestSimulated_WaitsForDelay(t *testing.T) {
	s := NewSimulated(0, nil)
	start := time.Now()
	_, err := s.Call(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSimulated_ContextCancelStopsTimer(t *testing.T) {
	s := NewSimulated(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Call(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGate_RejectsWhileBusy(t *testing.T) {
	g := NewGate()
	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = g.Do(context.Background(), func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	assert.True(t, g.Busy())
	err := g.Do(context.Background(), func(context.Context) error {
		assert.Fail(t, "second call must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	assert.False(t, g.Busy())
}

func TestGate_PropagatesError(t *testing.T) {
	g := NewGate()
	boom := errors.New("boom")
	err := g.Do(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, g.Busy())
}

func TestGate_BusyPollingDoesNotBlockDo(t *testing.T) {
	g := NewGate()
	stop := make(chan struct{})

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = g.Busy()
				}
			}
		}()
	}

	var rejected int
	for range 20000 {
		if err := g.Do(context.Background(), func(context.Context) error { return nil }); errors.Is(err, ErrBusy) {
			rejected++
		}
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, rejected)
	assert.False(t, g.Busy())
}
