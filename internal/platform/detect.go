package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reports the running OS and architecture, plus Linux distribution
// details when gopsutil can determine them.
//
// Distribution detection failures are not fatal: the OS/arch pair is all
// artifact selection needs. A cancelled context is.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if runtime.GOOS != "linux" {
		return info, nil
	}

	distro, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	distro = strings.ToLower(strings.TrimSpace(distro))
	if distro != "" {
		info.Distro = distro
		info.Family = mapFamily(family)
		info.DistroVersion = strings.TrimSpace(version)
	}

	return info, nil
}

// familyMap maps distribution family strings reported by gopsutil to
// canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[strings.ToLower(strings.TrimSpace(family))]; ok {
		return canonical
	}
	return FamilyUnknown
}
