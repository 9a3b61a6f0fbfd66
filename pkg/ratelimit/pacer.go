package ratelimit

import (
	"sync"
	"time"
)

// Pacer enforces a minimum interval between successive operations. The
// listing is served by a public registry, so page visits keep a courtesy
// floor between them regardless of how fast rendering completes.
type Pacer interface {
	// Wait blocks until at least the configured interval has elapsed since
	// the previous call, then marks the current operation as started.
	Wait()
	// Reset forgets the last operation time
	Reset()
}

// IntervalPacer implements Pacer with a fixed minimum interval
type IntervalPacer struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewIntervalPacer creates a pacer with the given minimum interval. A zero
// or negative interval disables pacing.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

// Wait blocks until the interval since the last operation has elapsed
func (p *IntervalPacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.interval > 0 && !p.last.IsZero() {
		if remaining := p.interval - time.Since(p.last); remaining > 0 {
			time.Sleep(remaining)
		}
	}

	p.last = time.Now()
}

// Reset forgets the last operation time
func (p *IntervalPacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = time.Time{}
}
