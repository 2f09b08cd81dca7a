// Package fetch downloads release archives and unpacks them.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/gridctl/maturinctl/pkg/logging"
)

// Fetcher downloads an archive and unpacks it into a directory.
type Fetcher interface {
	// Fetch unpacks the archive at rawURL into dest and returns dest.
	Fetch(ctx context.Context, rawURL, dest string) (string, error)
}

// HTTPFetcher fetches archives over HTTP.
type HTTPFetcher struct {
	client   *http.Client
	progress io.Writer
	logger   *slog.Logger
}

// New creates an HTTPFetcher with no progress output.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 10 * time.Minute},
		logger: logging.NewDiscardLogger(),
	}
}

// SetClient replaces the HTTP client.
func (f *HTTPFetcher) SetClient(c *http.Client) {
	if c != nil {
		f.client = c
	}
}

// SetProgress enables a download progress bar rendered to w. Pass nil to disable.
func (f *HTTPFetcher) SetProgress(w io.Writer) {
	f.progress = w
}

// SetLogger sets the logger for diagnostic output.
func (f *HTTPFetcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// Fetch downloads rawURL and unpacks it into dest. The archive is unpacked
// next to dest first and moved into place only when extraction succeeds, so
// dest never holds a partial tree.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, dest string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL %s: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if _, err := formatOf(name); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	archive, err := f.download(ctx, rawURL, name)
	if err != nil {
		return "", err
	}
	defer os.Remove(archive)

	staging, err := os.MkdirTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return "", fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := Extract(archive, name, staging); err != nil {
		return "", err
	}

	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("clearing %s: %w", dest, err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return "", fmt.Errorf("moving archive contents into %s: %w", dest, err)
	}

	f.logger.Debug("unpacked archive", "url", rawURL, "dest", dest)
	return dest, nil
}

// download writes the response body to a temp file and returns its path.
func (f *HTTPFetcher) download(ctx context.Context, rawURL, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "maturinctl")

	f.logger.Debug("downloading", "url", rawURL)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp("", "maturinctl-*-"+name)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	var w io.Writer = tmp
	if f.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionSetDescription(name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(f.progress) }),
		)
		defer bar.Close()
		w = io.MultiWriter(tmp, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
