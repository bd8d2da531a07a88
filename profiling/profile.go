// Package profiling measures and aggregates the execution latency of labeled
// code regions. Every record is a fixed-size accumulator of uint32 microsecond
// durations: Start and Stop are O(1), never block on anything but the record's
// own mutex, and never allocate, so they can sit inside a real-time loop.
//
// A record is either idle (no open measurement) or timing. Start moves it to
// timing, Stop folds the elapsed time into the statistics and moves it back to
// idle. Stop while idle does nothing.
//
//	decode := set.Add("frame decode")
//	profiling.Run(decode, func() { decodeFrame(buf) })
//
// A nil *Profile accepts every call as a no-op, which is what a disabled Set
// hands out.
package profiling

import (
	"sync"

	"github.com/fllarpy/camprobe/clock"
)

// Profile accumulates timing statistics for one labeled code region.
//
// The zero-duration sentinel of min is inherited from the hardware this was
// built for: a run measured as 0µs is indistinguishable from "no minimum yet".
type Profile struct {
	label string
	clock clock.Source

	mu        sync.Mutex
	lastStart uint32 // 0 means no open measurement
	runs      uint32
	sum       uint32
	min       uint32
	max       uint32
}

// New returns an idle Profile reading time from src.
func New(label string, src clock.Source) *Profile {
	if src == nil {
		src = clock.System()
	}
	return &Profile{label: label, clock: src}
}

// Label returns the identifying label set at construction.
func (p *Profile) Label() string {
	if p == nil {
		return ""
	}
	return p.label
}

// Start opens a measurement. An unmatched earlier Start is discarded.
func (p *Profile) Start() {
	if p == nil {
		return
	}
	now := p.clock.Micros()
	p.mu.Lock()
	p.lastStart = now
	p.mu.Unlock()
}

// Stop closes the open measurement and folds its duration into the
// statistics. Without an open measurement it is a no-op.
func (p *Profile) Stop() {
	if p == nil {
		return
	}
	now := p.clock.Micros()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastStart == 0 {
		return
	}
	p.observe(now - p.lastStart)
	p.lastStart = 0
}

// Observe folds an externally measured duration into the statistics without
// touching an open measurement.
func (p *Profile) Observe(elapsed uint32) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.observe(elapsed)
	p.mu.Unlock()
}

func (p *Profile) observe(elapsed uint32) {
	p.runs++
	p.sum += elapsed
	if p.min == 0 || elapsed < p.min {
		p.min = elapsed
	}
	if elapsed > p.max {
		p.max = elapsed
	}
}

// Timing reports whether a measurement is open.
func (p *Profile) Timing() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStart != 0
}

// Stats is a read-only copy of a Profile's statistics. All durations are
// microseconds.
type Stats struct {
	Label string `json:"label"`
	Runs  uint32 `json:"runs"`
	Sum   uint32 `json:"sum_us"`
	Mean  uint32 `json:"avg_us"`
	Min   uint32 `json:"min_us"`
	Max   uint32 `json:"max_us"`
}

// Stats returns a consistent snapshot of the accumulated statistics.
func (p *Profile) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var mean uint32
	if p.runs > 0 {
		mean = p.sum / p.runs
	}
	return Stats{
		Label: p.label,
		Runs:  p.runs,
		Sum:   p.sum,
		Mean:  mean,
		Min:   p.min,
		Max:   p.max,
	}
}
