// Package camprobe wires the profiling core of the camera client together:
// the counter set, the report cadence and an OpenTelemetry tracer provider
// whose spans land in the same counter set.
package camprobe

import (
	"context"
	"fmt"

	"github.com/fllarpy/camprobe/clock"
	"github.com/fllarpy/camprobe/config"
	"github.com/fllarpy/camprobe/debuglog"
	"github.com/fllarpy/camprobe/exporter"
	"github.com/fllarpy/camprobe/profiling"
	"github.com/fllarpy/camprobe/reporting"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Version is reported as service.version.
const Version = "1.0.0"

type Probe struct {
	set      *profiling.Set
	policy   reporting.Policy
	exporter *exporter.ProfileExporter
	tp       *sdktrace.TracerProvider
	logger   *debuglog.Logger
}

// Option customizes NewProbe.
type Option func(*options)

type options struct {
	clock      clock.Source
	syncExport bool
}

// WithClock replaces the system clock.
func WithClock(src clock.Source) Option {
	return func(o *options) { o.clock = src }
}

// WithSyncExport exports every span as it ends instead of batching. Tests use
// it to observe spans deterministically.
func WithSyncExport() Option {
	return func(o *options) { o.syncExport = true }
}

func NewProbe(ctx context.Context, cfg config.Config, logger *debuglog.Logger, opts ...Option) (*Probe, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	set := profiling.NewSet(profiling.Config{
		Enabled: cfg.Profiling.Enabled,
		Clock:   o.clock,
	})
	exp := exporter.NewProfileExporter(set, logger)

	res, err := newResource(cfg.Service.Name, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	export := sdktrace.WithBatcher(exp)
	if o.syncExport {
		export = sdktrace.WithSyncer(exp)
	}
	tp := sdktrace.NewTracerProvider(export, sdktrace.WithResource(res))

	logger.Printf(debuglog.Progress, "Probe: profiling enabled=%t, reporting every %d steps.",
		cfg.Profiling.Enabled, cfg.Profiling.Stepping)

	return &Probe{
		set:      set,
		policy:   reporting.NewPolicy(cfg.Profiling.Enabled, cfg.PolicyStepping()),
		exporter: exp,
		tp:       tp,
		logger:   logger,
	}, nil
}

func (p *Probe) Set() *profiling.Set { return p.set }

func (p *Probe) Policy() reporting.Policy { return p.policy }

func (p *Probe) Exporter() *exporter.ProfileExporter { return p.exporter }

// TracerProvider feeds finished spans into Set.
func (p *Probe) TracerProvider() trace.TracerProvider { return p.tp }

func (p *Probe) Tracer(name string) trace.Tracer { return p.tp.Tracer(name) }

func (p *Probe) Shutdown(ctx context.Context) {
	if err := p.tp.Shutdown(ctx); err != nil {
		p.logger.Printf(debuglog.Progress, "Probe: error shutting down tracer provider: %v", err)
	}
}

func newResource(serviceName, serviceVersion string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
}
