package toolchain

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
)

const (
	// GoName is the registry, directory and payload name of the Go toolchain.
	GoName = "go"

	// GoBaseURL is the official Go download site.
	GoBaseURL = "https://go.dev/dl"
)

// Go is the Go toolchain as published on go.dev.
type Go struct {
	base string
}

// NewGo returns the Go toolchain. A non-empty mirror replaces the default
// base URL for both catalog queries and downloads.
func NewGo(mirror string) *Go {
	base := strings.TrimRight(strings.TrimSpace(mirror), "/")
	if base == "" {
		base = GoBaseURL
	}
	return &Go{base: base}
}

func (g *Go) Name() string   { return GoName }
func (g *Go) Prefix() string { return "go" }

func (g *Go) BaseURL() string { return g.base }

// LatestURL is the JSON feed of current releases.
func (g *Go) LatestURL() string { return g.base + "/?mode=json" }

// ArchiveURL is the HTML page listing every release.
func (g *Go) ArchiveURL() string { return g.base + "/" }

func (g *Go) DownloadURL(filename string) string {
	return g.base + "/" + filename
}

func (g *Go) OSToken(goos string) string     { return platform.OSToken(goos) }
func (g *Go) ArchToken(goarch string) string { return platform.ArchToken(goarch) }
