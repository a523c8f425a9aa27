package client

import (
	"context"
	"sync"
	"time"
)

type PollerState int32

const (
	POLLER_IDLE PollerState = iota
	POLLER_POLLING
	POLLER_STOPPED
)

const DefaultPollInterval = time.Second * 3

// CheckFunc answers whether any job is still running.
type CheckFunc func(ctx context.Context) (bool, error)

// StatusPoller drives the conditional refresh of the indexing status view:
// it calls check immediately on Start, then again every interval while the
// answer stays true, and stops on the first false. The onStop callback fires
// exactly once, on the true-to-false transition, so dependent caches
// (unvalidated-content counters) are invalidated a single time.
//
// A poller is single-use. Reopening the view builds a fresh one.
type StatusPoller struct {
	interval time.Duration
	check    CheckFunc
	onStop   func()

	mu     sync.Mutex
	state  PollerState
	cancel context.CancelFunc
	done   chan struct{}
}

type PollerOption func(*StatusPoller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *StatusPoller) {
		p.interval = d
	}
}

// WithOnStop registers the cache-invalidation hook fired once when polling
// observes false.
func WithOnStop(fn func()) PollerOption {
	return func(p *StatusPoller) {
		p.onStop = fn
	}
}

func NewStatusPoller(check CheckFunc, opts ...PollerOption) *StatusPoller {
	p := &StatusPoller{
		interval: DefaultPollInterval,
		check:    check,
		state:    POLLER_IDLE,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *StatusPoller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start begins polling. It is a no-op unless the poller is idle.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.state != POLLER_IDLE {
		p.mu.Unlock()
		return
	}
	p.state = POLLER_POLLING
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *StatusPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		running, err := p.check(ctx)
		if err != nil {
			// transient failures keep the poll alive; the next tick retries
			if ctx.Err() != nil {
				p.settle(false)
				return
			}
		} else if !running {
			p.settle(true)
			return
		}

		select {
		case <-ctx.Done():
			p.settle(false)
			return
		case <-ticker.C:
		}
	}
}

// settle moves the poller to stopped. The invalidation hook only fires when
// polling observed the flag flip, not on cancellation.
func (p *StatusPoller) settle(flipped bool) {
	p.mu.Lock()
	if p.state == POLLER_STOPPED {
		p.mu.Unlock()
		return
	}
	p.state = POLLER_STOPPED
	onStop := p.onStop
	p.mu.Unlock()

	if flipped && onStop != nil {
		onStop()
	}
}

// Stop cancels polling and waits for the loop to exit. Safe to call more
// than once and on a poller that never started.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	if p.state == POLLER_IDLE {
		p.state = POLLER_STOPPED
		close(p.done)
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-p.done
}

// Done exposes loop completion for callers that tie view teardown to it.
func (p *StatusPoller) Done() <-chan struct{} {
	return p.done
}
