// internal/monitor/monitor.go
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/logger"
	"github.com/tamzrod/tcm-controller/internal/poller"
	"github.com/tamzrod/tcm-controller/internal/recorder"
	"github.com/tamzrod/tcm-controller/internal/status"
)

// TargetSource supplies the cached setpoint paired with every sample.
type TargetSource interface {
	TargetTemperature() float64
}

type Config struct {
	Log    *logrus.Logger
	Target TargetSource
	// Recorder is optional.
	Recorder recorder.Writer

	// QueryInterval is the minimum spacing of accepted samples.
	QueryInterval time.Duration
	// Window is how far back samples are kept.
	Window     time.Duration
	StaleAfter time.Duration
}

// Monitor consumes poller readings. It accepts at most one sample per
// query interval, keeps a sliding window and tracks device health.
type Monitor struct {
	target   TargetSource
	rec      recorder.Writer
	interval time.Duration
	window   time.Duration
	tracker  *status.Tracker
	log      *logrus.Entry

	mu      sync.Mutex
	last    time.Time
	samples []recorder.Sample
}

func New(cfg Config) (*Monitor, error) {
	if cfg.Target == nil {
		return nil, errors.New("monitor: target source required")
	}
	if cfg.QueryInterval <= 0 {
		return nil, errors.New("monitor: query interval must be > 0")
	}
	if cfg.Window < cfg.QueryInterval {
		return nil, errors.New("monitor: window must cover at least one query interval")
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}

	return &Monitor{
		target:   cfg.Target,
		rec:      cfg.Recorder,
		interval: cfg.QueryInterval,
		window:   cfg.Window,
		tracker:  status.NewTracker(cfg.StaleAfter),
		log: cfg.Log.WithFields(logrus.Fields{
			"module": "monitor",
			"scope":  "samples",
		}),
	}, nil
}

// Observe handles one reading. It matches poller.Observer.
// Failed exchanges only feed the health tracker.
func (m *Monitor) Observe(r poller.Reading) {
	if m.tracker.Observe(r.At, r.Err) {
		m.logStatus()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	defer m.prune(r.At)

	if r.Err != nil {
		return
	}
	if !m.last.IsZero() && r.At.Sub(m.last) < m.interval {
		return
	}

	s := recorder.Sample{
		At:     r.At,
		Actual: r.Temperature,
		Target: m.target.TargetTemperature(),
	}
	m.samples = append(m.samples, s)
	m.last = r.At

	m.log.Debugf("actual=%.2f target=%.2f", s.Actual, s.Target)

	if m.rec != nil {
		if err := m.rec.Write(s); err != nil {
			m.log.Warnf("record failed: %v", err)
		}
	}
}

// prune drops samples older than the window. Caller holds mu.
func (m *Monitor) prune(now time.Time) {
	cut := 0
	for cut < len(m.samples) && now.Sub(m.samples[cut].At) > m.window {
		cut++
	}
	if cut > 0 {
		m.samples = append(m.samples[:0], m.samples[cut:]...)
	}
}

// Samples returns a copy of the current window, oldest first.
func (m *Monitor) Samples() []recorder.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]recorder.Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// Latest returns the newest accepted sample.
func (m *Monitor) Latest() (recorder.Sample, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) == 0 {
		return recorder.Sample{}, false
	}
	return m.samples[len(m.samples)-1], true
}

func (m *Monitor) Status() status.Snapshot {
	return m.tracker.Snapshot()
}

// Run ticks the health tracker at 1 Hz until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if m.tracker.Tick(now) {
				m.logStatus()
			}
		}
	}
}

func (m *Monitor) logStatus() {
	s := m.tracker.Snapshot()
	e := m.log.WithFields(status.Encode(s))
	if s.Health == status.HealthOK {
		e.Info("device status")
		return
	}
	e.Warn("device status")
}
