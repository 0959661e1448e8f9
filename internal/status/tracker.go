// internal/status/tracker.go
package status

import (
	"sync"
	"time"
)

// Tracker turns sample outcomes and a 1 Hz tick into a Snapshot.
// Both methods report whether the snapshot changed.
type Tracker struct {
	mu         sync.Mutex
	snap       Snapshot
	staleAfter time.Duration
}

// NewTracker starts in HealthUnknown. staleAfter <= 0 uses DefaultStaleAfter.
func NewTracker(staleAfter time.Duration) *Tracker {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Tracker{staleAfter: staleAfter}
}

// Observe records one sample outcome.
func (t *Tracker) Observe(at time.Time, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.snap
	t.snap.LastSample = at

	if err == nil {
		// recovery resets the error state
		t.snap.Health = HealthOK
		t.snap.LastError = ""
		t.snap.SecondsInError = 0
	} else {
		// seconds_in_error increments on Tick only
		t.snap.Health = HealthError
		t.snap.LastError = err.Error()
	}

	return prev.Health != t.snap.Health ||
		prev.LastError != t.snap.LastError ||
		prev.SecondsInError != t.snap.SecondsInError
}

// Tick advances the clock by one second.
func (t *Tracker) Tick(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Health == HealthOK && now.Sub(t.snap.LastSample) > t.staleAfter {
		t.snap.Health = HealthStale
	}

	if t.snap.Health == HealthOK {
		return false
	}
	if t.snap.SecondsInError >= MaxSecondsInError {
		return false
	}
	t.snap.SecondsInError++
	return true
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}
