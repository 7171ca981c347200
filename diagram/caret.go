package diagram

import (
	"sync"
	"time"
)

// caretBlinker calls tick every period until stopped. Reset restarts the
// period; ticks scheduled before a Reset or Stop are dropped.
type caretBlinker struct {
	mu      sync.Mutex
	period  time.Duration
	tick    func()
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func newCaretBlinker(period time.Duration, tick func()) *caretBlinker {
	return &caretBlinker{period: period, tick: tick}
}

func (b *caretBlinker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
	}
	b.schedule(b.gen)
}

// schedule must be called with b.mu held.
func (b *caretBlinker) schedule(gen uint64) {
	b.timer = time.AfterFunc(b.period, func() { b.fire(gen) })
}

func (b *caretBlinker) fire(gen uint64) {
	b.mu.Lock()
	if b.stopped || gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.schedule(gen)
	b.mu.Unlock()

	b.tick()
}

// Stop cancels the timer for good. It is safe to call more than once.
func (b *caretBlinker) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *caretBlinker) Stopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopped
}
