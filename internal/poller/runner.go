// internal/poller/runner.go
package poller

import (
	"sync/atomic"
	"time"
)

// run waits one period, polls, and hands the reading to the dispatcher.
// No overlap. No retries.
func (p *Poller) run() {
	defer p.loopWG.Done()

	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}

		r := p.PollOnce()
		if r.Err != nil {
			p.log.Warnf("actual temperature query failed, using cached %.2f: %v", r.Temperature, r.Err)
		}

		select {
		case <-p.stop:
			return
		case p.readings <- r:
		default:
			p.log.Warn("reading queue full, dropping reading")
		}
	}
}

// dispatch runs consumer code off the protocol goroutine.
func (p *Poller) dispatch() {
	defer p.dispWG.Done()

	for {
		select {
		case <-p.stop:
			return
		case r := <-p.readings:
			p.deliver(r)
		}
	}
}

// stopping reports whether Stop has been called.
func (p *Poller) stopping() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

func (p *Poller) deliver(r Reading) {
	p.mu.Lock()
	cb, obs := p.callback, p.observer
	p.mu.Unlock()

	atomic.StoreInt32(&p.delivering, 1)
	defer atomic.StoreInt32(&p.delivering, 0)

	if obs != nil && !p.stopping() {
		p.guard("observer", func() { obs(r) })
	}
	if cb != nil && !p.stopping() {
		p.guard("callback", func() { cb(r.Temperature, 0) })
	}
}

// guard recovers a consumer panic so the loop keeps running.
func (p *Poller) guard(name string, fn func()) {
	defer func() {
		if v := recover(); v != nil {
			p.log.Errorf("%s panic, polling continues: %v", name, v)
		}
	}()
	fn()
}
