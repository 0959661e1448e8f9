// internal/controller/controller.go
package controller

import (
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/config"
	"github.com/tamzrod/tcm-controller/internal/poller"
	"github.com/tamzrod/tcm-controller/internal/transport"
)

// Controller is the capability set shared by the hardware and
// simulation variants.
type Controller interface {
	// Send performs one raw exchange and returns the trimmed response.
	Send(command, module string) (string, error)

	GetTargetTemperature() (float64, error)
	SetTargetTemperature(t float64) error
	SaveTargetTemperature() (string, error)

	// GetActualTemperature never fails on a malformed or empty response;
	// it returns the last good reading instead.
	GetActualTemperature() (float64, error)

	// Cached values. No I/O.
	TargetTemperature() float64
	CurrentTemperature() float64

	SetCallback(cb poller.Callback)
	SetObserver(o poller.Observer)
	Start() error
	Stop()
	Close() error
}

// New selects the variant from cfg.Device.Simulate. The config must be
// validated and normalized.
func New(cfg *config.Config, log *logrus.Logger) (Controller, error) {
	if cfg == nil {
		return nil, errors.New("controller: config required")
	}

	if cfg.Device.Simulate {
		s, err := NewSimulation(SimulationConfig{Log: log})
		if err != nil {
			return nil, errors.Trace(err)
		}
		return s, nil
	}

	tr, err := transport.Open(transport.SerialConfig{
		Log:          log,
		SerialNumber: cfg.Device.SerialNumber,
		BaudRate:     cfg.Device.BaudRate,
		ReadTimeout:  cfg.Device.ReadTimeout(),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	c, err := NewHardware(HardwareConfig{
		Log:    log,
		Sender: tr,
		Module: cfg.Device.Module,
	})
	if err != nil {
		_ = tr.Close()
		return nil, errors.Trace(err)
	}
	return c, nil
}

// ---- POLL LOOP ----

// loop owns the one poller of a controller.
type loop struct {
	p *poller.Poller
}

func newLoop(src poller.Source, log *logrus.Logger) (loop, error) {
	p, err := poller.New(poller.Config{Log: log, Source: src})
	if err != nil {
		return loop{}, errors.Trace(err)
	}
	return loop{p: p}, nil
}

func (l loop) SetCallback(cb poller.Callback) { l.p.SetCallback(cb) }

func (l loop) SetObserver(o poller.Observer) { l.p.SetObserver(o) }

func (l loop) Start() error { return l.p.Start() }

func (l loop) Stop() { l.p.Stop() }
