// internal/controller/hardware.go
package controller

import (
	"sync"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/logger"
	"github.com/tamzrod/tcm-controller/internal/tcm"
)

// Sender is the transport as seen by the hardware variant.
type Sender interface {
	Send(command, module string) (string, error)
	Close() error
}

// HardwareConfig wires an already opened transport.
type HardwareConfig struct {
	Log    *logrus.Logger
	Sender Sender
	Module string
}

// Hardware drives a real TCM. Cached temperatures are guarded by mu;
// the exchange itself is serialized inside the Sender.
type Hardware struct {
	loop

	sender Sender
	module string
	log    *logrus.Entry

	mu      sync.RWMutex
	target  float64
	current float64
}

// NewHardware seeds the target temperature with one synchronous query.
func NewHardware(cfg HardwareConfig) (*Hardware, error) {
	if cfg.Sender == nil {
		return nil, errors.New("controller: sender required")
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.Module == "" {
		cfg.Module = tcm.DefaultModule
	}

	h := &Hardware{
		sender: cfg.Sender,
		module: cfg.Module,
		log: cfg.Log.WithFields(logrus.Fields{
			"module": "controller",
			"scope":  "hardware",
		}),
	}

	l, err := newLoop(h, cfg.Log)
	if err != nil {
		return nil, errors.Trace(err)
	}
	h.loop = l

	if _, err := h.GetTargetTemperature(); err != nil {
		return nil, errors.Annotatef(err, "initial target query on %s", h.module)
	}
	return h, nil
}

func (h *Hardware) Send(command, module string) (string, error) {
	return h.sender.Send(command, module)
}

func (h *Hardware) GetTargetTemperature() (float64, error) {
	resp, err := h.sender.Send(tcm.QueryTarget(), h.module)
	if err != nil {
		return 0, err
	}
	t, err := tcm.ParseTarget(resp)
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	h.target = t
	h.mu.Unlock()
	return t, nil
}

// SetTargetTemperature stores t once the exchange succeeds. There is no
// confirmatory re-read.
func (h *Hardware) SetTargetTemperature(t float64) error {
	if _, err := h.sender.Send(tcm.SetTarget(t), h.module); err != nil {
		return err
	}

	h.mu.Lock()
	h.target = t
	h.mu.Unlock()
	return nil
}

func (h *Hardware) SaveTargetTemperature() (string, error) {
	resp, err := h.sender.Send(tcm.SaveTarget(), h.module)
	if err != nil {
		return resp, err
	}
	h.log.Infof("save target temperature: %s", resp)
	return resp, nil
}

func (h *Hardware) GetActualTemperature() (float64, error) {
	resp, err := h.sender.Send(tcm.QueryActual(), h.module)
	if err != nil {
		return h.CurrentTemperature(), err
	}

	t, err := tcm.ParseActual(resp)
	if err != nil {
		h.log.Debugf("keeping cached actual temperature: %v", err)
		return h.CurrentTemperature(), nil
	}

	h.mu.Lock()
	h.current = t
	h.mu.Unlock()
	return t, nil
}

func (h *Hardware) TargetTemperature() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.target
}

func (h *Hardware) CurrentTemperature() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Close stops polling and releases the channel.
func (h *Hardware) Close() error {
	h.Stop()
	return h.sender.Close()
}
