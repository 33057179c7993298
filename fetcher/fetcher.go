package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"waveforge/logger"
)

// Error reports a failed retrieval of a remote source. The caller owns any
// partial file left at the destination.
type Error struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: remote returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher downloads remote sources into local files.
type Fetcher struct {
	Client *http.Client
}

// New returns a Fetcher with a client suited for large media downloads
// (no overall timeout; the response body is streamed).
func New() *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
	}
}

// Fetch retrieves url into destPath, streaming the response body to disk
// without buffering it in memory. Exactly one attempt is made. On error no
// guarantee is made about a partial file at destPath.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{URL: url, Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{URL: url, StatusCode: resp.StatusCode}
	}
	if resp.Body == http.NoBody {
		return &Error{URL: url, Err: fmt.Errorf("response carried no body")}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &Error{URL: url, Err: fmt.Errorf("create %s: %w", destPath, err)}
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &Error{URL: url, Err: fmt.Errorf("write body: %w", err)}
	}

	logger.Debugf("fetched %s (%d bytes)", url, written)
	return nil
}
