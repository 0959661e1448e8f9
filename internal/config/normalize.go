// internal/config/normalize.go
package config

import "strings"

// ---- DEFAULTS ----

const (
	DefaultModule          = "TC1"
	DefaultBaudRate        = 57600
	DefaultReadTimeoutMs   = 500
	DefaultQueryIntervalMs = 2000
	DefaultWindowSec       = 60
	DefaultLogLevel        = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	d.SerialNumber = strings.TrimSpace(d.SerialNumber)
	if d.Module == "" {
		d.Module = DefaultModule
	}
	if d.BaudRate == 0 {
		d.BaudRate = DefaultBaudRate
	}
	if d.ReadTimeoutMs == 0 {
		d.ReadTimeoutMs = DefaultReadTimeoutMs
	}

	m := &cfg.Monitor
	if m.QueryIntervalMs == 0 {
		m.QueryIntervalMs = DefaultQueryIntervalMs
	}
	if m.WindowSec == 0 {
		m.WindowSec = DefaultWindowSec
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
