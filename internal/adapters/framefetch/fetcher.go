// Package framefetch pulls raw bytes of the MJPEG stream into a fixed ring of
// preallocated buffers. It does not parse multipart boundaries; the bytes it
// hands back are opaque to it.
package framefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

var ErrNoBuffers = errors.New("framefetch: buffer count and size must be positive")

// Fetcher keeps one stream connection open and reads it buffer by buffer.
type Fetcher struct {
	client *http.Client
	url    string

	mu      sync.Mutex
	buffers [][]byte
	next    int
	body    io.ReadCloser
}

// New allocates count buffers of size bytes each. A nil client means
// http.DefaultClient.
func New(client *http.Client, url string, count, size int) (*Fetcher, error) {
	if count <= 0 || size <= 0 {
		return nil, ErrNoBuffers
	}
	if client == nil {
		client = http.DefaultClient
	}
	buffers := make([][]byte, count)
	for i := range buffers {
		buffers[i] = make([]byte, size)
	}
	return &Fetcher{client: client, url: url, buffers: buffers}, nil
}

// Fetch fills the next ring buffer from the stream and returns the filled
// part. The slice is only valid until the ring wraps back to it. A short read
// at the end of the stream is returned as data; the connection is reopened on
// the following call.
//
// The connection stays bound to the ctx of the Fetch that opened it. Later
// calls only check their own ctx before reading: a cancelled ctx drops the
// connection and returns its error, but a deadline does not interrupt a read
// already in progress.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		f.closeBody()
		return nil, err
	}
	if f.body == nil {
		if err := f.open(ctx); err != nil {
			return nil, err
		}
	}

	buf := f.buffers[f.next]
	n, err := io.ReadFull(f.body, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		f.closeBody()
		if n == 0 {
			return nil, io.EOF
		}
	default:
		f.closeBody()
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	f.next = (f.next + 1) % len(f.buffers)
	return buf[:n], nil
}

func (f *Fetcher) open(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open stream %s: %w", f.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("failed to open stream %s: status %d", f.url, resp.StatusCode)
	}
	f.body = resp.Body
	return nil
}

func (f *Fetcher) closeBody() {
	if f.body != nil {
		f.body.Close()
		f.body = nil
	}
}

// Close drops the stream connection.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeBody()
	return nil
}
