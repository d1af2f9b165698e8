// Package toolchain describes the toolchains evm can manage: where their
// catalogs live, how their artifacts are named, and which platform tokens
// their filenames use.
package toolchain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
)

// Toolchain is one managed developer runtime.
type Toolchain interface {
	// Name is the directory name under the versions root and the name of
	// the payload directory inside release archives.
	Name() string
	// Prefix is stripped from catalog ids to form version names.
	Prefix() string
	BaseURL() string
	LatestURL() string
	ArchiveURL() string
	DownloadURL(filename string) string
	OSToken(goos string) string
	ArchToken(goarch string) string
}

// VersionName strips the toolchain prefix from a catalog id.
func VersionName(tc Toolchain, id string) string {
	return strings.TrimPrefix(id, tc.Prefix())
}

// Matcher returns the artifact matcher for tc on the given platform.
func Matcher(tc Toolchain, info *platform.Info) *platform.Matcher {
	if info == nil {
		return platform.NewMatcher(platform.Unknown, platform.Unknown)
	}
	return platform.NewMatcher(tc.OSToken(info.OS), tc.ArchToken(info.Arch))
}

// Constructor builds a toolchain, optionally against a mirror base URL.
type Constructor func(mirror string) Toolchain

var registry = map[string]Constructor{
	GoName: func(mirror string) Toolchain { return NewGo(mirror) },
}

// Lookup returns the toolchain registered under name.
func Lookup(name, mirror string) (Toolchain, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown toolchain %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(mirror), nil
}

// Names lists the registered toolchains in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
