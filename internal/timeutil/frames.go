package timeutil

import (
	"context"
	"sort"
	"sync"
	"time"
)

// FrameScheduler runs a callback on the next frame. The returned cancel
// function removes the callback if it has not run yet; calling it after the
// callback ran is a no-op.
type FrameScheduler interface {
	RequestFrame(cb func(now time.Time)) (cancel func())
}

// FrameLoop is a manual frame queue in the style of a browser repaint loop.
// Callbacks requested during a Tick run on the following Tick, never the
// current one.
type FrameLoop struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func(time.Time)
}

// NewFrameLoop returns an empty loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{pending: make(map[uint64]func(time.Time))}
}

// RequestFrame queues cb for the next Tick.
func (l *FrameLoop) RequestFrame(cb func(now time.Time)) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.pending[id] = cb
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.pending, id)
		l.mu.Unlock()
	}
}

// Pending returns the number of queued callbacks.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Tick runs every callback queued before the call, in request order, and
// returns how many ran.
func (l *FrameLoop) Tick(now time.Time) int {
	l.mu.Lock()
	ids := make([]uint64, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	l.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		// Re-check under the lock: an earlier callback may have cancelled this one.
		l.mu.Lock()
		cb, ok := l.pending[id]
		if ok {
			delete(l.pending, id)
		}
		l.mu.Unlock()
		if !ok {
			continue
		}
		cb(now)
		ran++
	}
	return ran
}

// Run ticks the loop from clock's ticker until ctx is done.
func (l *FrameLoop) Run(ctx context.Context, clock Clock, interval time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C():
			l.Tick(now)
		}
	}
}
