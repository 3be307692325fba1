package rift

import (
	"sync"
	"time"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing again. Reports whether it was still pending.
	Stop() bool
}

// Scheduler arms one-shot and periodic callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// TimeScheduler schedules callbacks on the runtime timers.
type TimeScheduler struct{}

// AfterFunc runs f once after d.
func (TimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every runs f each d until stopped. The next run is armed after f returns.
func (TimeScheduler) Every(d time.Duration, f func()) Timer {
	p := &periodicTimer{}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.arm(d, f)
	return p
}

type periodicTimer struct {
	mu      sync.Mutex
	t       *time.Timer
	stopped bool
}

// arm must be called with p.mu held.
func (p *periodicTimer) arm(d time.Duration, f func()) {
	p.t = time.AfterFunc(d, func() {
		p.mu.Lock()
		stopped := p.stopped
		p.mu.Unlock()
		if stopped {
			return
		}

		f()

		p.mu.Lock()
		defer p.mu.Unlock()
		if !p.stopped {
			p.arm(d, f)
		}
	})
}

func (p *periodicTimer) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	p.stopped = true
	p.t.Stop()
	return true
}

// timerGuard owns at most one pending timer. Not safe for concurrent use;
// sessions guard it with their mutex.
type timerGuard struct {
	t Timer
}

// Set replaces the pending timer, cancelling the previous one.
func (g *timerGuard) Set(t Timer) {
	g.Cancel()
	g.t = t
}

// Cancel stops and clears the pending timer. Idempotent.
func (g *timerGuard) Cancel() {
	if g.t != nil {
		g.t.Stop()
		g.t = nil
	}
}

// Clear forgets a timer that has already fired.
func (g *timerGuard) Clear() { g.t = nil }

// Armed reports whether the guard holds a timer.
func (g *timerGuard) Armed() bool { return g.t != nil }
