// Package platform detects the running operating system and CPU
// architecture and maps them onto the tokens toolchain artifacts use in
// their filenames.
//
// Detection uses runtime.GOOS/GOARCH for the platform pair and gopsutil
// for Linux distribution details. Distribution details only feed the
// read-only platform table injected into Lua configuration; artifact
// selection depends on the OS/arch pair alone.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Unknown is the token used for an unmapped OS or architecture.
// It never appears in an artifact filename, so it fails every match.
const Unknown = "unknown"

// Info contains platform detection information.
type Info struct {
	OS            string // runtime.GOOS, e.g. "linux", "darwin", "windows"
	Arch          string // runtime.GOARCH, e.g. "amd64", "arm64"
	Distro        string // distro ID (Linux only, e.g. "ubuntu")
	Family        string // canonical distro family (Linux only)
	DistroVersion string // distro version (Linux only, e.g. "22.04")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// Static is a Detector that always returns the same Info.
// Useful to pin a platform in tests or when cross-installing.
type Static Info

// Detect returns a copy of the static info.
func (s Static) Detect(ctx context.Context) (*Info, error) {
	info := Info(s)
	return &info, nil
}
