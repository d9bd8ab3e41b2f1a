package client

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired int32
	var last atomic.Value
	for _, s := range []string{"a", "al", "ali", "alic", "alice"} {
		s := s
		d.Do(func() {
			atomic.AddInt32(&fired, 1)
			last.Store(s)
		})
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, time.Second, 5*time.Millisecond)
	// Give any stray superseded timer a chance to misfire.
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired), "superseded functions are discarded, not delayed")
	assert.Equal(t, "alice", last.Load())
}

func TestDebouncerStopDiscardsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Do(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&fired), "stopped function never runs")

	// Stop with nothing pending is a safe no-op.
	d.Stop()
}

func TestDebouncerZeroDelayDefaults(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, SearchDebounce, d.d)
	d.Stop()
}
