// Package clock provides the time source used by slotstore.
//
// The store never calls time.Now directly. It stamps revisions and measures
// operation latency through an injected Clock so tests can control time:
//
//	manual := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	s := slotstore.New("subject", slotstore.WithClock(manual))
//	manual.Advance(time.Second)
package clock

import (
	"sync/atomic"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a clock that only moves when told to.
// It is safe for concurrent use.
type ManualClock struct {
	nanos atomic.Int64
	loc   *time.Location
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).In(c.loc)
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}

// NewReal returns a Clock backed by the system time.
func NewReal() Clock {
	return RealClock{}
}

// NewManual returns a ManualClock starting at start.
func NewManual(start time.Time) *ManualClock {
	c := &ManualClock{loc: start.Location()}
	c.nanos.Store(start.UnixNano())
	return c
}

var (
	_ Clock = RealClock{}
	_ Clock = (*ManualClock)(nil)
)
