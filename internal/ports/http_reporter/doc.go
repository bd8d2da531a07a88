// Package http_reporter exposes the profiling counter set over HTTP for
// inspection while the client runs. By default it serves a JSON array of
// per-region statistics; ?format=table serves the same fixed-width table the
// loop prints to the console.
package http_reporter
