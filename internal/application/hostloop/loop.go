// Package hostloop is the camera client's main loop. Each iteration runs the
// configured stages in order, each inside its own profiling bracket, and then
// lets the reporting policy decide whether to print the table.
package hostloop

import (
	"context"
	"sync"

	"github.com/fllarpy/camprobe/debuglog"
	"github.com/fllarpy/camprobe/profiling"
	"github.com/fllarpy/camprobe/reporting"
)

// Stage is one timed step of an iteration. A nil Profile runs Run untimed.
type Stage struct {
	Profile *profiling.Profile
	Run     func(ctx context.Context) error
}

// Loop drives stages and reports.
type Loop struct {
	stages []Stage
	set    *profiling.Set
	policy reporting.Policy
	logger *debuglog.Logger

	mu   sync.Mutex
	step uint32
}

func New(set *profiling.Set, policy reporting.Policy, logger *debuglog.Logger, stages ...Stage) *Loop {
	return &Loop{
		stages: stages,
		set:    set,
		policy: policy,
		logger: logger,
	}
}

// Step returns the number of completed iterations.
func (l *Loop) Step() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.step
}

// Iterate runs one iteration and reports when the new step is due.
func (l *Loop) Iterate(ctx context.Context) {
	for _, st := range l.stages {
		var err error
		profiling.Run(st.Profile, func() { err = st.Run(ctx) })
		if err != nil {
			l.logger.Printf(debuglog.Messages, "Loop: stage %q failed: %v", st.Profile.Label(), err)
		}
	}

	l.mu.Lock()
	l.step++
	step := l.step
	l.mu.Unlock()

	reported, err := l.policy.Report(l.logger.Writer(), step, l.set)
	if err != nil {
		l.logger.Printf(debuglog.Messages, "Loop: failed to write profile report: %v", err)
	}
	if reported {
		l.logger.Printf(debuglog.Verbose, "Loop: reported profile at step %d.", step)
	}
}

// Run iterates until ctx is done, or iterations times when iterations > 0.
// It returns ctx.Err() when cancelled.
func (l *Loop) Run(ctx context.Context, iterations int) error {
	for i := 0; iterations <= 0 || i < iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		l.Iterate(ctx)
	}
	return nil
}

// Start runs the loop in a goroutine until the returned stop func is called
// or ctx is done. stop waits for the current iteration to finish and may be
// called more than once.
func (l *Loop) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = l.Run(ctx, 0)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
