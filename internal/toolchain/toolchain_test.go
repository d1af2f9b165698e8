package toolchain

import (
	"testing"

	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
)

func TestGo_URLs(t *testing.T) {
	tests := []struct {
		name       string
		mirror     string
		wantLatest string
		wantArch   string
		wantDL     string
	}{
		{
			name:       "default",
			wantLatest: "https://go.dev/dl/?mode=json",
			wantArch:   "https://go.dev/dl/",
			wantDL:     "https://go.dev/dl/go1.22.0.linux-amd64.tar.gz",
		},
		{
			name:       "mirror with trailing slash",
			mirror:     "https://mirror.example.com/golang/",
			wantLatest: "https://mirror.example.com/golang/?mode=json",
			wantArch:   "https://mirror.example.com/golang/",
			wantDL:     "https://mirror.example.com/golang/go1.22.0.linux-amd64.tar.gz",
		},
		{
			name:       "blank mirror",
			mirror:     "   ",
			wantLatest: "https://go.dev/dl/?mode=json",
			wantArch:   "https://go.dev/dl/",
			wantDL:     "https://go.dev/dl/go1.22.0.linux-amd64.tar.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGo(tt.mirror)
			if got := g.LatestURL(); got != tt.wantLatest {
				t.Errorf("LatestURL() = %q, want %q", got, tt.wantLatest)
			}
			if got := g.ArchiveURL(); got != tt.wantArch {
				t.Errorf("ArchiveURL() = %q, want %q", got, tt.wantArch)
			}
			if got := g.DownloadURL("go1.22.0.linux-amd64.tar.gz"); got != tt.wantDL {
				t.Errorf("DownloadURL() = %q, want %q", got, tt.wantDL)
			}
		})
	}
}

func TestVersionName(t *testing.T) {
	g := NewGo("")
	tests := map[string]string{
		"go1.22.0":  "1.22.0",
		"go1.21rc2": "1.21rc2",
		"1.20":      "1.20",
		"gogo1.0":   "go1.0",
	}
	for id, want := range tests {
		if got := VersionName(g, id); got != want {
			t.Errorf("VersionName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestMatcher(t *testing.T) {
	g := NewGo("")

	tests := []struct {
		name     string
		info     *platform.Info
		filename string
		want     bool
	}{
		{name: "linux amd64", info: &platform.Info{OS: "linux", Arch: "amd64"}, filename: "go1.22.0.linux-amd64.tar.gz", want: true},
		{name: "darwin arm64", info: &platform.Info{OS: "darwin", Arch: "arm64"}, filename: "go1.22.0.darwin-arm64.tar.gz", want: true},
		{name: "linux arm", info: &platform.Info{OS: "linux", Arch: "arm"}, filename: "go1.22.0.linux-armv6l.tar.gz", want: true},
		{name: "wrong arch", info: &platform.Info{OS: "linux", Arch: "amd64"}, filename: "go1.22.0.linux-arm64.tar.gz", want: false},
		{name: "unsupported os", info: &platform.Info{OS: "plan9", Arch: "amd64"}, filename: "go1.22.0.plan9-amd64.tar.gz", want: false},
		{name: "nil info", info: nil, filename: "go1.22.0.unknown-unknown.tar.gz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matcher(g, tt.info).Matches(tt.filename); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tc, err := Lookup("go", "https://mirror.example.com")
	if err != nil {
		t.Fatalf("Lookup(go) error = %v", err)
	}
	if tc.Name() != GoName || tc.BaseURL() != "https://mirror.example.com" {
		t.Errorf("Lookup(go) = %s %s", tc.Name(), tc.BaseURL())
	}

	if _, err := Lookup("node", ""); err == nil {
		t.Error("Lookup(node) should fail")
	}
	if names := Names(); len(names) != 1 || names[0] != "go" {
		t.Errorf("Names() = %v, want [go]", names)
	}
}
