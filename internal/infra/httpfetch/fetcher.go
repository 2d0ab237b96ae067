// Package httpfetch retrieves manifest assets over HTTP(S) with a single,
// unauthenticated GET per call.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"dsfetch/internal/logging"
)

// FileWriter persists a response body at dst.
type FileWriter interface {
	WriteFile(dst string, src io.Reader) (int64, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: bad status: %s", e.URL, e.Status)
}

type Fetcher struct {
	Client *http.Client
	Files  FileWriter
	// Progress receives a byte progress bar per download when non-nil.
	Progress io.Writer
	Logger   logging.Logger
}

func (f *Fetcher) Fetch(ctx context.Context, url, destination string) error {
	if f.Files == nil {
		return fmt.Errorf("fetcher requires a file writer")
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	var bar *progressbar.ProgressBar
	if f.Progress != nil {
		bar = newBar(f.Progress, resp.ContentLength, filepath.Base(destination))
		body = io.TeeReader(resp.Body, bar)
	}

	start := time.Now()
	n, err := f.Files.WriteFile(destination, body)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", destination, err)
	}
	f.Logger.Verbosef("wrote %d bytes to %s in %s", n, destination, time.Since(start).Round(time.Millisecond))
	return nil
}

func newBar(w io.Writer, size int64, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(fmt.Sprintf("downloading %s", name)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
