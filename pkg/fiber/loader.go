package fiber

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sanonone/fibermap/pkg/metrics"
)

// Loader yields the raw bytes of a resource given a path or URL.
type Loader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// Load fetches ref through l and decodes it.
// Source failures wrap ErrIO; corrupt content wraps ErrMalformedInput.
func Load(ctx context.Context, l Loader, ref string) (FiberSet, error) {
	data, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	metrics.CodecBytesTotal.WithLabelValues("decode").Add(float64(len(data)))

	fs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	metrics.FibersDecodedTotal.Add(float64(len(fs)))
	return fs, nil
}

// FileLoader reads resources from the local filesystem.
// When Root is set, relative refs are resolved against it.
type FileLoader struct {
	Root string
}

// Load reads the whole file. Cancellation is checked before the read only:
// local reads are not interruptible.
func (l FileLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := ref
	if l.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return data, nil
}

// HTTPLoader fetches resources with a GET request.
type HTTPLoader struct {
	Client *http.Client
	// MaxBytes caps the body size. Zero means no limit.
	MaxBytes int64
}

// NewHTTPLoader returns a loader with a dedicated client and the given timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{Client: &http.Client{Timeout: timeout}}
}

// Load performs the request bound to ctx. Any non-2xx status is an ErrIO.
func (l *HTTPLoader) Load(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrIO, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrIO, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("fiber resource fetch failed", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrIO, url, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if l.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, l.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %v", ErrIO, url, err)
	}
	if l.MaxBytes > 0 && int64(len(data)) > l.MaxBytes {
		return nil, fmt.Errorf("%w: body of %s exceeds %d bytes", ErrIO, url, l.MaxBytes)
	}
	return data, nil
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// LoaderFor picks HTTPLoader for http(s) URLs and FileLoader otherwise.
func LoaderFor(ref string, timeout time.Duration) Loader {
	if IsRemote(ref) {
		return NewHTTPLoader(timeout)
	}
	return FileLoader{}
}
