package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_StartsAtEpoch(t *testing.T) {
	clock := NewStepClock(16 * time.Millisecond)
	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_TickAdvancesByStep(t *testing.T) {
	clock := NewStepClock(16 * time.Millisecond)

	assert.Equal(t, Epoch, clock.Tick())
	assert.Equal(t, Epoch.Add(16*time.Millisecond), clock.Tick())
	assert.Equal(t, Epoch.Add(32*time.Millisecond), clock.Now())
}

func TestStepClock_AdvanceAndReset(t *testing.T) {
	clock := NewStepClock(time.Millisecond)
	clock.Advance(time.Second)
	assert.Equal(t, Epoch.Add(time.Second), clock.Now())

	clock.Reset()
	assert.Equal(t, Epoch, clock.Tick())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(time.Millisecond)
	const n = 50

	var wg sync.WaitGroup
	seen := make(chan time.Time, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Tick()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, n)
	assert.Equal(t, Epoch.Add(n*time.Millisecond), clock.Now())
}

func TestAt(t *testing.T) {
	assert.Equal(t, Epoch.Add(1500*time.Millisecond), At(1500))
}

func TestFixedSessionGenerator(t *testing.T) {
	gen := NewFixedSessionGenerator("")
	assert.Equal(t, "test-session-default", gen.Generate())
	assert.Equal(t, "test-session-default", gen.Generate())

	gen = NewFixedSessionGenerator("abc")
	assert.Equal(t, "abc", gen.Generate())
}
