// Package timedhttp instruments the HTTP client that pulls the camera stream.
// Every round trip is bracketed in a profiling record and traced through
// otelhttp, so the request shows up both as a hand-timed region and as a span
// in the profile exporter.
//
// The bracket ends when response headers arrive; reading the body is timed by
// the caller.
package timedhttp
