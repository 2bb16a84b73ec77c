package view

import (
	"sync"
	"time"

	"github.com/banshee-data/buyer.atlas/internal/monitoring"
	"github.com/banshee-data/buyer.atlas/internal/timeutil"
)

// DefaultAnimationDuration is the length of one domain transition.
const DefaultAnimationDuration = 400 * time.Millisecond

// EaseInOutQuad is the symmetric quadratic ease: 2t² below one half,
// 1-2(1-t)² above. t is clamped to [0,1].
func EaseInOutQuad(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := 1 - t
	return 1 - 2*u*u
}

// DomainAnimator moves the displayed domain toward the latest target, one
// frame at a time. A new target cancels the in-flight animation and starts
// from the last rendered domain.
type DomainAnimator struct {
	mu       sync.Mutex
	sched    timeutil.FrameScheduler
	clock    timeutil.Clock
	duration time.Duration
	onFrame  func(Domain)
	metrics  *monitoring.Metrics

	hasTarget bool
	animating bool
	current   Domain
	from      Domain
	target    Domain
	start     time.Time
	gen       uint64
	cancel    func()
}

// NewDomainAnimator returns an animator driven by sched. onFrame, if not nil,
// receives every rendered domain; it is called without the animator's lock
// held.
func NewDomainAnimator(sched timeutil.FrameScheduler, clock timeutil.Clock, duration time.Duration, onFrame func(Domain)) *DomainAnimator {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if duration <= 0 {
		duration = DefaultAnimationDuration
	}
	return &DomainAnimator{sched: sched, clock: clock, duration: duration, onFrame: onFrame}
}

// SetMetrics attaches telemetry for cancelled animations.
func (a *DomainAnimator) SetMetrics(m *monitoring.Metrics) {
	a.mu.Lock()
	a.metrics = m
	a.mu.Unlock()
}

// SetTarget animates toward d. Repeating the current target is a no-op and
// the first target is shown immediately.
func (a *DomainAnimator) SetTarget(d Domain) {
	a.mu.Lock()
	if a.hasTarget && d == a.target {
		a.mu.Unlock()
		return
	}
	if !a.hasTarget {
		a.hasTarget = true
		a.target = d
		a.current = d
		cb := a.onFrame
		a.mu.Unlock()
		if cb != nil {
			cb(d)
		}
		return
	}

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.animating {
		a.metrics.AnimationCancelled()
		monitoring.Debugf("domain animation restarted from %+v", a.current)
	}
	a.gen++
	a.from = a.current
	a.target = d
	a.start = a.clock.Now()
	a.animating = true
	a.requestLocked(a.gen)
	a.mu.Unlock()
}

func (a *DomainAnimator) requestLocked(gen uint64) {
	a.cancel = a.sched.RequestFrame(func(now time.Time) { a.frame(gen, now) })
}

func (a *DomainAnimator) frame(gen uint64, now time.Time) {
	a.mu.Lock()
	if gen != a.gen || !a.animating {
		a.mu.Unlock()
		return
	}
	p := clamp01(float64(now.Sub(a.start)) / float64(a.duration))
	if p >= 1 {
		a.current = a.target
		a.animating = false
		a.cancel = nil
	} else {
		a.current = a.from.Lerp(a.target, EaseInOutQuad(p))
		a.requestLocked(gen)
	}
	cur := a.current
	cb := a.onFrame
	a.mu.Unlock()

	if cb != nil {
		cb(cur)
	}
}

// Current returns the last rendered domain.
func (a *DomainAnimator) Current() Domain {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Target returns the domain being animated toward.
func (a *DomainAnimator) Target() Domain {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.target
}

// Animating reports whether a transition is in flight.
func (a *DomainAnimator) Animating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.animating
}

// Finish jumps to the target and cancels any pending frame. Batch callers
// that never tick a frame loop use it to read settled values.
func (a *DomainAnimator) Finish() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.gen++
	a.animating = false
	a.current = a.target
	a.mu.Unlock()
}
