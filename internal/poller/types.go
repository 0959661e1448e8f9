// internal/poller/types.go
package poller

import "time"

// Period is the fixed poll cadence.
const Period = time.Second

// DefaultQueueSize bounds readings waiting for the dispatcher.
const DefaultQueueSize = 8

// Source is whatever can report the actual temperature.
// On a failed exchange it still returns the last good value.
type Source interface {
	GetActualTemperature() (float64, error)
}

// Callback receives one reading per cycle. The second argument is
// always 0 and carries no information.
type Callback func(temperature float64, reserved int)

// Observer receives the full reading, including the exchange error.
type Observer func(Reading)

// Reading is the result of one poll cycle.
type Reading struct {
	At          time.Time
	Temperature float64
	Err         error // non-nil means the exchange failed; Temperature is the cached value
}
