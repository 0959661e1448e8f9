// internal/config/config.go
package config

import "time"

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Monitor MonitorConfig `yaml:"monitor"`
	Log     LogConfig     `yaml:"log"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	// SerialNumber is matched against enumerated USB serial ports.
	SerialNumber  string `yaml:"serial_number" validate:"omitempty,printascii"`
	Module        string `yaml:"module" validate:"omitempty,alphanum,max=8"`
	BaudRate      int    `yaml:"baud_rate" validate:"gte=0"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms" validate:"gte=0,lte=10000"`
	Simulate      bool   `yaml:"simulate"`
}

// ---- MONITOR ----

type MonitorConfig struct {
	// QueryIntervalMs throttles how often readings are acted on.
	// The poll itself always runs at one second.
	QueryIntervalMs int    `yaml:"query_interval_ms" validate:"omitempty,gte=1000"`
	WindowSec       int    `yaml:"window_sec" validate:"omitempty,gte=10,lte=3600"`
	RecordDir       string `yaml:"record_dir"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	File  string `yaml:"file"`
}

// ---- DERIVED ----

func (d DeviceConfig) ReadTimeout() time.Duration {
	return time.Duration(d.ReadTimeoutMs) * time.Millisecond
}

func (m MonitorConfig) QueryInterval() time.Duration {
	return time.Duration(m.QueryIntervalMs) * time.Millisecond
}

func (m MonitorConfig) Window() time.Duration {
	return time.Duration(m.WindowSec) * time.Second
}
