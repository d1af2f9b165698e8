// Package catalog retrieves the remote listing of toolchain releases.
//
// Two sources exist. The latest feed is a small JSON document listing the
// current releases and is what every query starts with. The archive is the
// full HTML download page; it is scraped only when a caller explicitly asks
// for archived releases, and the scraping is confined to archive.go so that
// an upstream markup change touches nothing else.
package catalog

import "context"

// Entry is one release in the catalog.
type Entry struct {
	ID     string     `json:"version" yaml:"version"`
	Stable bool       `json:"stable" yaml:"stable"`
	Files  []Artifact `json:"files" yaml:"files"`
}

// Artifact describes one downloadable file of a release.
type Artifact struct {
	Filename string `json:"filename" yaml:"filename"`
	OS       string `json:"os" yaml:"os"`
	Arch     string `json:"arch" yaml:"arch"`
	Version  string `json:"version" yaml:"version"`
	SHA256   string `json:"sha256" yaml:"sha256"`
	Size     uint64 `json:"size" yaml:"size"`
	Kind     string `json:"kind" yaml:"kind"`
}

// Artifact kinds published by the upstream catalog.
const (
	KindArchive   = "archive"
	KindInstaller = "installer"
	KindSource    = "source"
)

// Fetcher retrieves catalog entries.
type Fetcher interface {
	// FetchLatest returns the current releases. It is cheap and always
	// consulted first.
	FetchLatest(ctx context.Context) ([]Entry, error)

	// FetchArchive returns archived releases. It is expensive and only
	// used on explicit request.
	FetchArchive(ctx context.Context) ([]Entry, error)
}
