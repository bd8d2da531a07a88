package http_reporter

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/fllarpy/camprobe/profiling"
)

// NewHandler creates an HTTP handler that serves statistics from set.
func NewHandler(set *profiling.Set) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") == "table" {
			var buf bytes.Buffer
			if err := set.WriteTable(&buf); err != nil {
				http.Error(w, "Failed to render profile table", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write(buf.Bytes())
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(set.Snapshot()); err != nil {
			http.Error(w, "Failed to encode profile to JSON", http.StatusInternalServerError)
		}
	})
}
