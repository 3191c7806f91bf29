package clock

import (
	"sync"
	"time"
)

// Clock is the time source for the simulators and the roast tracker.
// Production code uses Real(); tests use a Fake they can advance by hand.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Real returns the wall clock in UTC.
func Real() Clock { return realClock{} }

// Fake is a manually driven clock. The zero value is not usable; use NewFake.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t.UTC()
	f.mu.Unlock()
}

// scaledClock runs factor times faster than its base clock, anchored at
// the moment it was created.
type scaledClock struct {
	base   Clock
	origin time.Time
	factor float64
}

// Scaled returns a clock that advances factor times faster than base.
// A factor <= 0 or == 1 returns base unchanged.
func Scaled(base Clock, factor float64) Clock {
	if factor <= 0 || factor == 1 {
		return base
	}
	return &scaledClock{base: base, origin: base.Now(), factor: factor}
}

func (s *scaledClock) Now() time.Time {
	elapsed := s.base.Now().Sub(s.origin)
	return s.origin.Add(time.Duration(float64(elapsed) * s.factor))
}
