// internal/transport/open.go
package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/serial"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial/enumerator"

	"github.com/tamzrod/tcm-controller/internal/logger"
)

// DefaultBaudRate is the TCM link speed.
const DefaultBaudRate = 57600

// allow tests to override external dependencies
var (
	listPorts = enumerator.GetDetailedPortsList
	openPort  = func(c *serial.Config) (Port, error) { return serial.Open(c) }
)

// SerialConfig selects and configures the physical port.
type SerialConfig struct {
	Log *logrus.Logger

	// SerialNumber is matched against the USB serial number of every port.
	SerialNumber string
	BaudRate     int
	ReadTimeout  time.Duration
}

// DeviceNotFoundError is returned when no enumerated port carries the
// configured serial number.
type DeviceNotFoundError struct {
	SerialNumber string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("transport: no device found with serial number: %s", e.SerialNumber)
}

// PortInfo is one enumerated port.
type PortInfo struct {
	Name         string
	SerialNumber string
	VID          string
	PID          string
	Product      string
}

// ListPorts returns every enumerated serial port.
func ListPorts() ([]PortInfo, error) {
	details, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("transport: enumerate ports: %w", err)
	}
	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		out = append(out, PortInfo{
			Name:         d.Name,
			SerialNumber: d.SerialNumber,
			VID:          d.VID,
			PID:          d.PID,
			Product:      d.Product,
		})
	}
	return out, nil
}

// FindPort resolves the device path of the port whose serial number
// equals serialNumber. The first match wins.
func FindPort(serialNumber string) (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	for _, p := range ports {
		if p.SerialNumber == serialNumber {
			return p.Name, nil
		}
	}
	return "", &DeviceNotFoundError{SerialNumber: serialNumber}
}

// Open finds the port by serial number and opens it 8N1.
func Open(cfg SerialConfig) (*Transport, error) {
	if cfg.SerialNumber == "" {
		return nil, errors.New("transport: serial number required")
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	name, err := FindPort(cfg.SerialNumber)
	if err != nil {
		return nil, err
	}

	port, err := openPort(&serial.Config{
		Address:  name,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", name, err)
	}

	cfg.Log.WithFields(logrus.Fields{
		"module": "transport",
		"scope":  "serial",
	}).Infof("opened %s (serial=%s baud=%d timeout=%s)", name, cfg.SerialNumber, cfg.BaudRate, cfg.ReadTimeout)

	return New(port, Config{
		Log:         cfg.Log,
		ReadTimeout: cfg.ReadTimeout,
	})
}
