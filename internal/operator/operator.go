// Package operator implements the evm operations over one toolchain:
// listing local and remote versions, installing, activating and
// uninstalling them.
//
// An Operator holds no state between calls. Each mutating operation takes
// the evm lock for its duration, and every operation writes human-readable
// status lines to the configured output.
package operator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ZebulonRouseFrantzich/evm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/evm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/evm/internal/lock"
	"github.com/ZebulonRouseFrantzich/evm/internal/log"
	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
	"github.com/ZebulonRouseFrantzich/evm/internal/store"
	"github.com/ZebulonRouseFrantzich/evm/internal/toolchain"
)

// Downloader fetches checksum-verified artifacts.
type Downloader interface {
	Fetch(ctx context.Context, url, filename, checksum string) (string, error)
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Extractor unpacks an archive into a fresh temporary directory.
type Extractor interface {
	Extract(archivePath string) (string, error)
}

// Verifier checks a detached signature over a downloaded artifact.
type Verifier interface {
	Verify(artifactPath string, signature []byte) error
}

// Operator runs evm operations for a single toolchain.
type Operator struct {
	toolchain  toolchain.Toolchain
	home       string
	fetcher    catalog.Fetcher
	downloader Downloader
	extractor  Extractor
	verifier   Verifier
	store      *store.Store
	matcher    *platform.Matcher
	out        io.Writer
	errOut     io.Writer
	logger     log.Logger
	noLock     bool
}

// Option configures an Operator.
type Option func(*Operator)

// WithFetcher sets the catalog fetcher.
func WithFetcher(f catalog.Fetcher) Option {
	return func(o *Operator) { o.fetcher = f }
}

// WithDownloader sets the artifact downloader.
func WithDownloader(d Downloader) Option {
	return func(o *Operator) { o.downloader = d }
}

// WithExtractor sets the archive extractor.
func WithExtractor(e Extractor) Option {
	return func(o *Operator) { o.extractor = e }
}

// WithVerifier enables signature verification of downloaded artifacts
// against "{download url}.asc".
func WithVerifier(v Verifier) Option {
	return func(o *Operator) { o.verifier = v }
}

// WithPlatform selects artifacts for info instead of the running platform.
func WithPlatform(info *platform.Info) Option {
	return func(o *Operator) { o.matcher = toolchain.Matcher(o.toolchain, info) }
}

// WithOutput sets where status lines and listings are written.
func WithOutput(w io.Writer) Option {
	return func(o *Operator) {
		if w != nil {
			o.out = w
		}
	}
}

// WithErrorOutput sets where per-item failures are written.
func WithErrorOutput(w io.Writer) Option {
	return func(o *Operator) {
		if w != nil {
			o.errOut = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(o *Operator) { o.logger = log.OrNop(l) }
}

// WithoutLock disables the evm lock for mutating operations.
func WithoutLock() Option {
	return func(o *Operator) { o.noLock = true }
}

// New creates an Operator for tc rooted at the evm home directory. Unless
// overridden, catalogs are fetched over HTTP from the toolchain's URLs,
// artifacts are cached in {home}/downloads and archives are unpacked under
// {home}/tmp, next to the versions tree so payloads can be renamed into
// place.
func New(tc toolchain.Toolchain, home string, opts ...Option) *Operator {
	o := &Operator{
		toolchain: tc,
		home:      home,
		out:       os.Stdout,
		errOut:    os.Stderr,
		logger:    log.Nop(),
	}
	o.matcher = toolchain.Matcher(tc, &platform.Info{OS: runtime.GOOS, Arch: runtime.GOARCH})

	for _, opt := range opts {
		opt(o)
	}

	if o.fetcher == nil {
		o.fetcher = catalog.NewHTTPFetcher(tc.LatestURL(), tc.ArchiveURL(), catalog.WithLogger(o.logger))
	}
	if o.downloader == nil {
		o.downloader = artifact.NewDownloader(DownloadsDir(home), artifact.WithLogger(o.logger))
	}
	if o.extractor == nil {
		o.extractor = artifact.NewExtractorIn(filepath.Join(home, "tmp"))
	}
	o.store = store.New(VersionsDir(home, tc), store.WithLogger(o.logger))

	return o
}

// VersionsDir returns {home}/versions/{toolchain}.
func VersionsDir(home string, tc toolchain.Toolchain) string {
	return filepath.Join(home, "versions", tc.Name())
}

// DownloadsDir returns the artifact cache directory under home.
func DownloadsDir(home string) string {
	return filepath.Join(home, "downloads")
}

// acquire takes the evm lock. The returned function releases it.
func (o *Operator) acquire(ctx context.Context) (func(), error) {
	if o.noLock {
		return func() {}, nil
	}
	l, err := lock.Acquire(ctx, o.home)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.Release(); err != nil {
			o.logger.Warn("failed to release lock", "path", l.Path(), "error", err)
		}
	}, nil
}

func (o *Operator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
