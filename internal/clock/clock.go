// Package clock supplies the monotonic millisecond counter the control loop
// and every engine compare their timers against.
//
// The counter is a uint32 and wraps roughly every 49.7 days, matching the
// behavior of the millisecond tick counters found on small boards. All
// elapsed-time math must go through Elapsed, which stays correct across a
// single wraparound thanks to unsigned subtraction.
package clock

import "time"

// Clock returns a monotonically increasing millisecond counter.
// The counter never decreases except when it wraps at the uint32 boundary.
type Clock interface {
	// NowMillis returns the current counter value in milliseconds.
	NowMillis() uint32
}

// Elapsed returns the number of milliseconds between since and now,
// assuming at most one counter wraparound between the two readings.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// System is a Clock backed by the Go runtime's monotonic clock,
// rebased to zero at construction time.
type System struct {
	// start anchors the counter so early readings stay far from the wrap point.
	start time.Time
}

// NewSystem creates a system clock whose counter starts near zero.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// NowMillis returns milliseconds elapsed since the clock was created,
// truncated to uint32.
func (s *System) NowMillis() uint32 {
	return uint32(time.Since(s.start).Milliseconds()) //nolint:gosec // Wraparound is the documented contract.
}

// Fake is a manually advanced Clock for tests.
type Fake struct {
	// Millis is the value returned by NowMillis.
	Millis uint32
}

// NowMillis returns the current fake counter value.
func (f *Fake) NowMillis() uint32 {
	return f.Millis
}

// Advance moves the fake counter forward by the given number of milliseconds.
func (f *Fake) Advance(ms uint32) {
	f.Millis += ms
}
