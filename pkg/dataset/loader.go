package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rubiojr/armory/pkg/log"
)

// Loader fetches datasets from local files or http(s) URLs. Relative file
// paths are resolved against BaseDir, usually the config directory.
type Loader struct {
	BaseDir string
	Client  *http.Client
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve returns the filesystem path for a dataset and whether it is local.
func (l *Loader) Resolve(path string) (string, bool) {
	if isRemote(path) {
		return path, false
	}
	if filepath.IsAbs(path) || l.BaseDir == "" {
		return filepath.Clean(path), true
	}
	return filepath.Join(l.BaseDir, path), true
}

// Load fetches and decodes the dataset at path. Any failure is returned as
// a *LoadError.
func (l *Loader) Load(ctx context.Context, path string, mode Mode) (*Dataset, error) {
	logger := log.ForService("dataset")
	start := time.Now()

	rc, err := l.open(ctx, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer rc.Close()

	r, err := decompress(rc, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer r.Close()

	ds, err := Decode(&ctxReader{ctx: ctx, r: r}, mode)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	ds.Source = path

	logger.Debugf("loaded %d %s records from %s in %s", ds.Len(), mode, path, time.Since(start))
	return ds, nil
}

func (l *Loader) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !isRemote(path) {
		local, _ := l.Resolve(path)
		return os.Open(local)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// decompress picks a decoder from the path suffix (.gz or .zst).
func decompress(r io.Reader, path string) (io.ReadCloser, error) {
	name := path
	if isRemote(path) {
		if u, err := url.Parse(path); err == nil {
			name = u.Path
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return zr, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	}
	return io.NopCloser(r), nil
}

// ctxReader stops reading once ctx is done so a superseded load does not
// keep decoding a large document.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
