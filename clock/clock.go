// Package clock provides the monotonic microsecond counter the profiling core
// reads. Readings are uint32 and wrap at 2^32 microseconds (about 71 minutes);
// durations are computed with unsigned subtraction so a single wrap inside one
// bracket still yields the right value.
package clock

import (
	"sync"
	"time"
)

// Source returns elapsed microseconds since an arbitrary fixed epoch.
type Source interface {
	Micros() uint32
}

// Func adapts a plain function to Source.
type Func func() uint32

func (f Func) Micros() uint32 { return f() }

var epoch = time.Now()

type system struct{}

func (system) Micros() uint32 {
	return uint32(time.Since(epoch) / time.Microsecond)
}

// System returns the process-wide monotonic clock, anchored at process start.
func System() Source { return system{} }

// Manual is a settable clock for tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now uint32
}

// NewManual returns a Manual clock reading start.
func NewManual(start uint32) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Micros() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t. Moving backwards is allowed and behaves like a wrap.
func (m *Manual) Set(t uint32) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d microseconds, wrapping on overflow.
func (m *Manual) Advance(d uint32) {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}
