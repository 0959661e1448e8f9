// internal/status/snapshot.go
package status

import "time"

// Snapshot is the current health of one controller.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         Health
	LastError      string
	SecondsInError uint16
	LastSample     time.Time
}
