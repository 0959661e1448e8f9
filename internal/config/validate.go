// internal/config/validate.go
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ------------------------------------------------------------
	// FIELD RULES (struct tags)
	// ------------------------------------------------------------

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return errors.Trace(err)
	}

	// ------------------------------------------------------------
	// DEVICE SELECTION
	// ------------------------------------------------------------

	// hardware needs a serial number to match against enumerated ports
	if !cfg.Device.Simulate && strings.TrimSpace(cfg.Device.SerialNumber) == "" {
		return errors.New("config: device.serial_number is required unless device.simulate is set")
	}

	// ------------------------------------------------------------
	// MONITOR WINDOW
	// ------------------------------------------------------------

	// zero fields take their defaults in Normalize; compare what will run
	interval := cfg.Monitor.QueryIntervalMs
	if interval == 0 {
		interval = DefaultQueryIntervalMs
	}
	window := cfg.Monitor.WindowSec
	if window == 0 {
		window = DefaultWindowSec
	}
	if interval > window*1000 {
		return errors.Errorf("config: monitor.query_interval_ms (%d) exceeds monitor.window_sec (%d)", interval, window)
	}

	return nil
}

// fieldError renders a validator failure with the YAML-ish field path.
func fieldError(fe validator.FieldError) error {
	path := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Errorf("config: %s failed %s=%s (value %v)", path, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("config: %s failed %s (value %v)", path, fe.Tag(), fe.Value())
}
