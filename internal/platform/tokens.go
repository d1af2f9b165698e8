package platform

import "strings"

// osTokens maps OS names (Go's GOOS plus common marketing names) to the
// lowercase names used in toolchain artifact filenames.
var osTokens = map[string]string{
	"linux":   "linux",
	"darwin":  "darwin",
	"macos":   "darwin",
	"windows": "windows",
}

// archTokens maps CPU architecture names, both Go's GOARCH values and the
// raw machine names, to toolchain artifact tokens.
var archTokens = map[string]string{
	"386":     "386",
	"x86":     "386",
	"amd64":   "amd64",
	"x86_64":  "amd64",
	"arm":     "armv6l",
	"arm64":   "arm64",
	"aarch64": "arm64",
}

// OSToken returns the artifact filename token for an OS, or Unknown.
func OSToken(goos string) string {
	if token, ok := osTokens[strings.ToLower(strings.TrimSpace(goos))]; ok {
		return token
	}
	return Unknown
}

// ArchToken returns the artifact filename token for an architecture, or Unknown.
func ArchToken(goarch string) string {
	if token, ok := archTokens[strings.ToLower(strings.TrimSpace(goarch))]; ok {
		return token
	}
	return Unknown
}
