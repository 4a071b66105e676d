package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outcome is one recorded primary call and what the breaker should answer.
type outcome struct {
	fail      bool
	usePath   bool // useFallback for failures, usePrimary for successes
	opened    bool
	closed    bool
	stateWant State
}

func replay(t *testing.T, b *Breaker, steps []outcome) {
	t.Helper()
	for i, step := range steps {
		var (
			use    bool
			change Change
		)
		if step.fail {
			use, change = b.RecordFailure()
		} else {
			use, change = b.RecordSuccess()
		}
		require.Equalf(t, step.usePath, use, "step %d", i)
		require.Equalf(t, step.opened, change.Opened, "step %d opened", i)
		require.Equalf(t, step.closed, change.Closed, "step %d closed", i)
		require.Equalf(t, step.stateWant, b.State(), "step %d state", i)
	}
}

func TestNewBreakerIsClosed(t *testing.T) {
	b := New("activity-mirror")

	assert.Equal(t, "activity-mirror", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
	assert.False(t, b.IsOpen())
}

func TestBreakerSequences(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []outcome
	}{
		{
			name: "mirror opens on the fifth failure and closes on one success",
			opts: []Option{WithFailureThreshold(5), WithSuccessThreshold(1)},
			steps: []outcome{
				{fail: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, usePath: true, opened: true, stateWant: StateOpen},
				{fail: true, usePath: true, stateWant: StateOpen},
				{usePath: true, closed: true, stateWant: StateClosed},
			},
		},
		{
			name: "rate limiter needs three straight successes to close",
			opts: []Option{WithFailureThreshold(2), WithSuccessThreshold(3)},
			steps: []outcome{
				{fail: true, stateWant: StateClosed},
				{fail: true, usePath: true, opened: true, stateWant: StateOpen},
				{stateWant: StateOpen},
				{stateWant: StateOpen},
				{fail: true, usePath: true, stateWant: StateOpen},
				{stateWant: StateOpen},
				{stateWant: StateOpen},
				{usePath: true, closed: true, stateWant: StateClosed},
			},
		},
		{
			name: "success clears a failure streak",
			opts: []Option{WithFailureThreshold(2)},
			steps: []outcome{
				{fail: true, stateWant: StateClosed},
				{usePath: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, usePath: true, opened: true, stateWant: StateOpen},
			},
		},
		{
			name: "non-positive thresholds keep defaults",
			opts: []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)},
			steps: []outcome{
				{fail: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, stateWant: StateClosed},
				{fail: true, usePath: true, opened: true, stateWant: StateOpen},
				{stateWant: StateOpen},
				{usePath: true, closed: true, stateWant: StateClosed},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replay(t, New("test", tt.opts...), tt.steps)
		})
	}
}

func TestResetClosesAndClearsCounters(t *testing.T) {
	b := New("ratelimit", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordFailure()
	require.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())

	b.Reset()

	assert.False(t, b.IsOpen())
	// a single failure after reset must not reopen
	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)
}

func TestConcurrentFailuresOpenOnce(t *testing.T) {
	b := New("activity-mirror", WithFailureThreshold(10))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.True(t, b.IsOpen())
}
