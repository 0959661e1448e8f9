// internal/status/constants.go
package status

import "time"

// Health is the device health state.
type Health uint16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown Health = 0

// HealthOK represents a healthy device.
const HealthOK Health = 1

// HealthError represents a device error state.
const HealthError Health = 2

// HealthStale represents a stale data state.
const HealthStale Health = 3

// ---- LIMITS ----

// MaxSecondsInError is where the seconds-in-error counter saturates.
const MaxSecondsInError = 65535

// DefaultStaleAfter is how long a healthy device may go without a sample.
const DefaultStaleAfter = 5 * time.Second

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
