package profiling

import (
	"io"
	"sync"

	"github.com/fllarpy/camprobe/clock"
)

// Config configures a Set.
type Config struct {
	Enabled bool
	Clock   clock.Source
}

// Set is one named counter set. Profiles are registered once, normally at
// program initialization, and live for the rest of the process.
type Set struct {
	enabled bool
	clock   clock.Source

	mu       sync.RWMutex
	byLabel  map[string]*Profile
	profiles []*Profile
}

// NewSet returns an empty Set. A nil Clock means clock.System.
func NewSet(cfg Config) *Set {
	src := cfg.Clock
	if src == nil {
		src = clock.System()
	}
	return &Set{
		enabled: cfg.Enabled,
		clock:   src,
		byLabel: make(map[string]*Profile),
	}
}

// Enabled reports whether the set hands out live profiles.
func (s *Set) Enabled() bool { return s.enabled }

// Add registers a profile under label and returns it. Adding a label twice
// returns the existing profile. A disabled set returns nil, which turns every
// bracket on it into a pass-through.
func (s *Set) Add(label string) *Profile {
	if !s.enabled {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byLabel[label]; ok {
		return p
	}
	p := New(label, s.clock)
	s.byLabel[label] = p
	s.profiles = append(s.profiles, p)
	return p
}

// Lookup returns the profile registered under label, or nil.
func (s *Set) Lookup(label string) *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byLabel[label]
}

// Observe folds an externally measured duration into the profile for label,
// registering it first if needed.
func (s *Set) Observe(label string, elapsed uint32) {
	s.Add(label).Observe(elapsed)
}

// Profiles returns the registered profiles in registration order.
func (s *Set) Profiles() []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Snapshot returns the statistics of every registered profile in
// registration order.
func (s *Set) Snapshot() []Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Stats, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Stats())
	}
	return out
}

// WriteTable writes the header followed by one row per registered profile.
func (s *Set) WriteTable(w io.Writer) error {
	if err := WriteHeader(w); err != nil {
		return err
	}
	for _, st := range s.Snapshot() {
		if err := writeRow(w, st); err != nil {
			return err
		}
	}
	return nil
}
