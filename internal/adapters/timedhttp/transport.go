package timedhttp

import (
	"net/http"

	"github.com/fllarpy/camprobe/profiling"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Transport is an http.RoundTripper that times requests into a profile.
type Transport struct {
	// Base executes the request. It already carries the otelhttp layer.
	Base http.RoundTripper

	profile *profiling.Profile
}

// RoundTrip executes a single HTTP transaction inside the profile bracket.
// Failed round trips are timed too.
func (t *Transport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	profiling.Run(t.profile, func() {
		resp, err = t.Base.RoundTrip(req)
	})
	return resp, err
}

// RegionKey tags stream spans with the label of the profile timing them.
const RegionKey = attribute.Key("camprobe.region")

// SpanName is the span name used for a request to path.
func SpanName(path string) string {
	return "stream " + path
}

// NewTransport wraps base (http.DefaultTransport when nil) with otelhttp
// tracing on tp and a profile bracket. A nil profile only traces, without the
// region attribute.
func NewTransport(base http.RoundTripper, profile *profiling.Profile, tp trace.TracerProvider) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return SpanName(r.URL.Path)
		}),
	}
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}
	if profile != nil {
		opts = append(opts, otelhttp.WithSpanOptions(trace.WithAttributes(RegionKey.String(profile.Label()))))
	}
	return &Transport{
		Base:    otelhttp.NewTransport(base, opts...),
		profile: profile,
	}
}

// NewClient returns a copy of base (a zero client when nil) using the timed
// transport.
func NewClient(base *http.Client, profile *profiling.Profile, tp trace.TracerProvider) *http.Client {
	client := &http.Client{}
	if base != nil {
		*client = *base
	}
	client.Transport = NewTransport(client.Transport, profile, tp)
	return client
}
