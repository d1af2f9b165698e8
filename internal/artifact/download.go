package artifact

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/log"
)

// DefaultUserAgent is the User-Agent header sent with download requests.
const DefaultUserAgent = "evm/1.0"

// HTTPClient is the minimal HTTP client the downloader needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader fetches artifacts into a checksum-verified cache directory.
type Downloader struct {
	client    HTTPClient
	cacheDir  string
	userAgent string
	logger    log.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c HTTPClient) DownloaderOption {
	return func(d *Downloader) {
		if c != nil {
			d.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) DownloaderOption {
	return func(d *Downloader) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = log.OrNop(l)
	}
}

// NewDownloader creates a downloader caching into cacheDir. No client
// timeout is set; transport defaults apply.
func NewDownloader(cacheDir string, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:    http.DefaultClient,
		cacheDir:  cacheDir,
		userAgent: DefaultUserAgent,
		logger:    log.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch returns the local path of the artifact named filename, downloading it
// from url unless a cached copy already hashes to checksum.
//
// A fresh download is verified in memory before anything touches the cache.
// On a checksum mismatch nothing is written and any stale cache entry under
// the same name is discarded.
func (d *Downloader) Fetch(ctx context.Context, url, filename, checksum string) (string, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: invalid artifact filename %q", ErrDownloadFailed, filename)
	}
	if strings.TrimSpace(checksum) == "" {
		return "", fmt.Errorf("%w: no checksum recorded for %s", ErrChecksumMismatch, filename)
	}

	cachePath := filepath.Join(d.cacheDir, filename)

	if sum, err := FileSHA256(cachePath); err == nil {
		if strings.EqualFold(sum, checksum) {
			d.logger.Debug("using cached artifact", "path", cachePath)
			return cachePath, nil
		}
		d.logger.Info("cached artifact failed checksum, downloading again", "path", cachePath)
	}

	content, err := d.FetchBytes(ctx, url)
	if err != nil {
		return "", err
	}

	if actual := SHA256(content); !strings.EqualFold(actual, checksum) {
		if rmErr := os.Remove(cachePath); rmErr != nil && !os.IsNotExist(rmErr) {
			d.logger.Warn("could not discard cache entry", "path", cachePath, "error", rmErr)
		}
		return "", &MismatchError{Filename: filename, Expected: checksum, Actual: actual}
	}

	if err := writeFileAtomic(cachePath, content); err != nil {
		return "", fmt.Errorf("write cache entry: %w", err)
	}

	d.logger.Debug("downloaded artifact", "url", url, "path", cachePath, "bytes", len(content))
	return cachePath, nil
}

// maxPrealloc bounds how much of an advertised Content-Length is reserved
// up front. Larger bodies still download; the buffer grows as data arrives.
const maxPrealloc = 256 << 20

// FetchBytes downloads url fully into memory.
func (d *Downloader) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 && resp.ContentLength <= maxPrealloc {
		buf.Grow(int(resp.ContentLength))
	}
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrDownloadFailed, err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// SHA256 returns the lowercase hex SHA-256 digest of data.
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FileSHA256 returns the lowercase hex SHA-256 digest of the file at path.
func FileSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
