package platform

import "strings"

// Matcher decides whether an artifact filename was built for one platform.
//
// A filename matches when it contains "{os}-{arch}". An Unknown token on
// either side matches nothing, so unmapped platforms yield false negatives
// only.
type Matcher struct {
	os   string
	arch string
}

// NewMatcher creates a matcher from already-mapped tokens.
func NewMatcher(osToken, archToken string) *Matcher {
	return &Matcher{os: osToken, arch: archToken}
}

// Matches reports whether filename targets this matcher's platform.
func (m *Matcher) Matches(filename string) bool {
	if m.os == "" || m.arch == "" || m.os == Unknown || m.arch == Unknown {
		return false
	}
	return strings.Contains(filename, m.Pair())
}

// Pair returns the "{os}-{arch}" substring this matcher looks for.
func (m *Matcher) Pair() string {
	return m.os + "-" + m.arch
}
