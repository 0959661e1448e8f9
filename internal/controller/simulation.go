// internal/controller/simulation.go
package controller

import (
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// ---- SIMULATED READINGS ----

const (
	SimulatedTarget = 10.0
	SimulatedActual = 12.0
)

type SimulationConfig struct {
	Log *logrus.Logger
}

// Simulation satisfies Controller without any channel. Readings are
// constant and writes are ignored.
type Simulation struct {
	loop
}

func NewSimulation(cfg SimulationConfig) (*Simulation, error) {
	s := &Simulation{}
	l, err := newLoop(s, cfg.Log)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.loop = l
	return s, nil
}

func (s *Simulation) Send(command, module string) (string, error) { return "", nil }

func (s *Simulation) GetTargetTemperature() (float64, error) { return SimulatedTarget, nil }

func (s *Simulation) SetTargetTemperature(float64) error { return nil }

func (s *Simulation) SaveTargetTemperature() (string, error) { return "", nil }

func (s *Simulation) GetActualTemperature() (float64, error) { return SimulatedActual, nil }

func (s *Simulation) TargetTemperature() float64 { return SimulatedTarget }

func (s *Simulation) CurrentTemperature() float64 { return SimulatedActual }

func (s *Simulation) Close() error {
	s.Stop()
	return nil
}
