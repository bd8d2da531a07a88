// Package exporter folds finished OpenTelemetry spans into profiling records,
// so code traced through otel (the stream HTTP client, the debug server) shows
// up in the same table as the hand-bracketed regions.
package exporter

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/fllarpy/camprobe/debuglog"
	"github.com/fllarpy/camprobe/profiling"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var _ sdktrace.SpanExporter = (*ProfileExporter)(nil)

// ProfileExporter is an sdktrace.SpanExporter keyed by span name.
type ProfileExporter struct {
	set    *profiling.Set
	logger *debuglog.Logger

	mu       sync.Mutex
	failures map[string]uint32
}

func NewProfileExporter(set *profiling.Set, logger *debuglog.Logger) *ProfileExporter {
	logger.Printf(debuglog.Messages, "SpanExporter: initializing profile exporter.")
	return &ProfileExporter{
		set:      set,
		logger:   logger,
		failures: make(map[string]uint32),
	}
}

func (e *ProfileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		elapsed := micros(span.EndTime().Sub(span.StartTime()))
		e.set.Observe(span.Name(), elapsed)

		if span.Status().Code == codes.Error {
			e.mu.Lock()
			e.failures[span.Name()]++
			e.mu.Unlock()
			e.logger.Printf(debuglog.Messages, "SpanExporter: span %q failed: %s", span.Name(), span.Status().Description)
		}
		e.logger.Printf(debuglog.Verbose, "SpanExporter: %s took %d us", span.Name(), elapsed)
	}
	return nil
}

func (e *ProfileExporter) Shutdown(ctx context.Context) error {
	e.logger.Printf(debuglog.Messages, "SpanExporter: shut down.")
	return nil
}

// Failures returns how many spans named label ended with an error status.
func (e *ProfileExporter) Failures(label string) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failures[label]
}

func micros(d time.Duration) uint32 {
	us := d.Microseconds()
	switch {
	case us < 0:
		return 0
	case us > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(us)
}
