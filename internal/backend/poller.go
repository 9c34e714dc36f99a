package backend

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often progress is polled from engines that do not
// push it
const DefaultPollInterval = 500 * time.Millisecond

// Poller is a cancellable periodic task. Start always cancels the previous run
// before arming a new one, so at most one ticker is alive per Poller.
type Poller struct {
	interval time.Duration
	tick     func()

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPoller creates a stopped poller. A non-positive interval uses
// DefaultPollInterval.
func NewPoller(interval time.Duration, tick func()) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, tick: tick}
}

// Start cancels any running task and arms a new one bound to ctx
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	go p.run(ctx)
}

// Stop cancels the running task. It does not wait for an in-flight tick.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Running reports whether a task is armed
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Interval returns the tick interval
func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stop may race with the ticker firing
			if ctx.Err() != nil {
				return
			}
			p.tick()
		}
	}
}
