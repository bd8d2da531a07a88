// Package reporting decides when the host loop should print profiling
// statistics. It owns no loop: the host passes in its own step counter.
package reporting

import (
	"io"

	"github.com/fllarpy/camprobe/profiling"
)

// DefaultStepping is the number of loop iterations between reports.
const DefaultStepping = 10

// Policy is the report cadence.
type Policy struct {
	Enabled  bool
	Stepping uint32
}

// NewPolicy returns a Policy. A zero stepping falls back to DefaultStepping.
func NewPolicy(enabled bool, stepping uint32) Policy {
	if stepping == 0 {
		stepping = DefaultStepping
	}
	return Policy{Enabled: enabled, Stepping: stepping}
}

// Due reports whether step is a reporting step.
func (p Policy) Due(step uint32) bool {
	if !p.Enabled || p.Stepping == 0 || step == 0 {
		return false
	}
	return step%p.Stepping == 0
}

// Report writes the table for set to w when step is due and reports whether
// it did.
func (p Policy) Report(w io.Writer, step uint32, set *profiling.Set) (bool, error) {
	if !p.Due(step) {
		return false, nil
	}
	return true, set.WriteTable(w)
}
