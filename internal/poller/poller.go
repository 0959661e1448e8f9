// internal/poller/poller.go
package poller

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/logger"
)

var (
	// ErrStarted is returned by Start on a running poller.
	ErrStarted = errors.New("poller: already started")
	// ErrStopped is returned by Start once the poller has been stopped.
	ErrStopped = errors.New("poller: stopped")
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Log       *logrus.Logger
	Source    Source
	QueueSize int
}

// Poller is a clock-driven reader. It is started at most once.
type Poller struct {
	src    Source
	period time.Duration
	log    *logrus.Entry

	readings chan Reading
	stop     chan struct{}
	loopWG   sync.WaitGroup
	dispWG   sync.WaitGroup

	// delivering is 1 while the dispatcher runs consumer code.
	delivering int32

	mu       sync.Mutex
	callback Callback
	observer Observer
	started  bool
	stopped  bool
}

// New creates a poller. It does not start it.
func New(cfg Config) (*Poller, error) {
	if cfg.Source == nil {
		return nil, errors.New("poller: source required")
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	return &Poller{
		src:      cfg.Source,
		period:   Period,
		log:      cfg.Log.WithFields(logrus.Fields{"module": "poller", "scope": "loop"}),
		readings: make(chan Reading, cfg.QueueSize),
		stop:     make(chan struct{}),
	}, nil
}

// SetCallback registers the consumer callback. nil unregisters it.
func (p *Poller) SetCallback(cb Callback) {
	p.mu.Lock()
	p.callback = cb
	p.mu.Unlock()
}

// SetObserver registers a handler for full readings. nil unregisters it.
func (p *Poller) SetObserver(o Observer) {
	p.mu.Lock()
	p.observer = o
	p.mu.Unlock()
}

// Start launches the poll loop and the dispatcher.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	if p.started {
		return ErrStarted
	}
	p.started = true

	p.loopWG.Add(1)
	p.dispWG.Add(1)
	go p.run()
	go p.dispatch()

	p.log.Debugf("started (period=%s)", p.period)
	return nil
}

// Stop signals both goroutines and waits for them to exit. No delivery
// starts once Stop has returned. An in-flight exchange is not interrupted.
// Stop is idempotent.
//
// Stop may be called from the callback or observer. While a delivery is in
// progress Stop waits for the poll loop only; the dispatcher exits when
// the delivery returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stop)
	p.mu.Unlock()

	p.loopWG.Wait()
	if atomic.LoadInt32(&p.delivering) == 1 {
		p.log.Debug("stopped during delivery")
		return
	}
	p.dispWG.Wait()
	p.log.Debug("stopped")
}

// Running reports whether the loop is started and not yet stopped.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started && !p.stopped
}

// PollOnce performs exactly one query against the source.
func (p *Poller) PollOnce() Reading {
	t, err := p.src.GetActualTemperature()
	return Reading{
		At:          time.Now(),
		Temperature: t,
		Err:         err,
	}
}
