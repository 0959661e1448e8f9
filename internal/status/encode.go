// internal/status/encode.go
package status

import "github.com/sirupsen/logrus"

// Encode renders a Snapshot as log fields.
// No IO. No side effects.
func Encode(s Snapshot) logrus.Fields {
	f := logrus.Fields{
		"health":           s.Health.String(),
		"seconds_in_error": s.SecondsInError,
	}
	if s.LastError != "" {
		f["last_error"] = s.LastError
	}
	if !s.LastSample.IsZero() {
		f["last_sample"] = s.LastSample.Format("15:04:05")
	}
	return f
}
