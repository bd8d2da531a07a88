package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/fllarpy/camprobe/debuglog"
	"github.com/fllarpy/camprobe/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func span(name string, d time.Duration, code codes.Code) sdktrace.ReadOnlySpan {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return tracetest.SpanStub{
		Name:      name,
		StartTime: start,
		EndTime:   start.Add(d),
		Status:    sdktrace.Status{Code: code, Description: "stream closed"},
	}.Snapshot()
}

func TestProfileExporter_ExportSpans(t *testing.T) {
	set := profiling.NewSet(profiling.Config{Enabled: true})
	exp := NewProfileExporter(set, debuglog.Discard())

	err := exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{
		span("stream /stream", 1500*time.Microsecond, codes.Ok),
		span("stream /stream", 500*time.Microsecond, codes.Error),
		span("GET /debug/profile", 80*time.Microsecond, codes.Unset),
	})
	require.NoError(t, err)

	snap := set.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, profiling.Stats{Label: "stream /stream", Runs: 2, Sum: 2000, Mean: 1000, Min: 500, Max: 1500}, snap[0])
	assert.Equal(t, "GET /debug/profile", snap[1].Label)

	assert.Equal(t, uint32(1), exp.Failures("stream /stream"))
	assert.Zero(t, exp.Failures("GET /debug/profile"))
	assert.NoError(t, exp.Shutdown(context.Background()))
}

func TestProfileExporter_DisabledSet(t *testing.T) {
	set := profiling.NewSet(profiling.Config{Enabled: false})
	exp := NewProfileExporter(set, debuglog.Discard())

	require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{
		span("stream /stream", time.Millisecond, codes.Ok),
	}))
	assert.Empty(t, set.Snapshot())
}

func TestMicros(t *testing.T) {
	assert.Equal(t, uint32(0), micros(-time.Second))
	assert.Equal(t, uint32(1500), micros(1500*time.Microsecond))
	assert.Equal(t, ^uint32(0), micros(100*time.Hour))
}
