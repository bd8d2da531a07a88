package timedhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fllarpy/camprobe/debuglog"
	"github.com/fllarpy/camprobe/exporter"
	"github.com/fllarpy/camprobe/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTransport_RoundTrip(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"Not Found", http.StatusNotFound},
		{"Internal Server Error", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
			}))
			defer server.Close()

			set := profiling.NewSet(profiling.Config{Enabled: true})
			exp := exporter.NewProfileExporter(set, debuglog.Discard())
			tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
			defer func() { _ = tp.Shutdown(context.Background()) }()

			read := set.Add("stream read")
			client := NewClient(nil, read, tp)

			resp, err := client.Get(server.URL + "/stream")
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, tc.statusCode, resp.StatusCode)

			assert.Equal(t, uint32(1), read.Stats().Runs, "round trip should be bracketed once")
			assert.False(t, read.Timing())

			traced := set.Lookup(SpanName("/stream"))
			require.NotNil(t, traced, "otelhttp span should reach the exporter")
			assert.Equal(t, uint32(1), traced.Stats().Runs)
		})
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, assert.AnError
}

func TestTransport_FailedRoundTripIsTimed(t *testing.T) {
	set := profiling.NewSet(profiling.Config{Enabled: true})
	read := set.Add("stream read")

	client := NewClient(&http.Client{Transport: failingTransport{}}, read, nil)
	_, err := client.Get("http://2.2.2.1:81/stream")
	require.Error(t, err)

	assert.Equal(t, uint32(1), read.Stats().Runs)
}

func TestTransport_NilProfileOnlyTraces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := NewClient(nil, nil, nil)
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTransport_SpanCarriesRegion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	recorded := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(recorded))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	set := profiling.NewSet(profiling.Config{Enabled: true})
	client := NewClient(nil, set.Add("stream read"), tp)

	resp, err := client.Get(server.URL + "/stream")
	require.NoError(t, err)
	resp.Body.Close()

	spans := recorded.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanName("/stream"), spans[0].Name)

	var region string
	for _, kv := range spans[0].Attributes {
		if kv.Key == RegionKey {
			region = kv.Value.AsString()
		}
	}
	assert.Equal(t, "stream read", region)
}
