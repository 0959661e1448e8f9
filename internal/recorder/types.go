// internal/recorder/types.go
package recorder

import "time"

// Sample is one accepted reading paired with the target at that moment.
type Sample struct {
	At     time.Time
	Actual float64
	Target float64
}

// Writer persists samples.
type Writer interface {
	Write(s Sample) error
}

// ---- FILE LAYOUT ----

// FilePattern names a recording after its start time.
const FilePattern = "temperature_20060102_150405.csv"

// TimeLayout formats the Time column.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Header is the first row of every recording.
var Header = []string{"Time", "Actual Temperature", "Target Temperature"}
