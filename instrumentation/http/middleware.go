package http

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// NewMiddleware traces handler on tp. Span names come from the request, as
// "<method> <path>", so each debug endpoint gets its own profiling record.
func NewMiddleware(handler http.Handler, operation string, tp trace.TracerProvider) http.Handler {
	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}
	return otelhttp.NewHandler(handler, operation, opts...)
}
