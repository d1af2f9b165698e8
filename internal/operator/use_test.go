package operator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/evm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/evm/internal/render"
)

// installFake creates install directories without going through the catalog.
func installFake(t *testing.T, env *testEnv, versions ...string) {
	t.Helper()
	for _, v := range versions {
		if err := os.MkdirAll(filepath.Join(env.versionDir(v), "bin"), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func activeNames(t *testing.T, op *Operator) []string {
	t.Helper()
	items, err := op.Installed()
	if err != nil {
		t.Fatal(err)
	}
	var active []string
	for _, item := range items {
		if item.Active {
			active = append(active, item.Name)
		}
	}
	return active
}

func TestUse_AtMostOneActive(t *testing.T) {
	env := newTestEnv(t, newUpstream(t))
	installFake(t, env, "1.20.14", "1.21.7", "1.22.0")
	ctx := context.Background()

	for _, v := range []string{"1.21.7", "1.22.0", "1.20.14", "1.22.0"} {
		if err := env.op.Use(ctx, v); err != nil {
			t.Fatalf("Use(%s) error = %v", v, err)
		}
		active := activeNames(t, env.op)
		if len(active) != 1 || active[0] != v {
			t.Errorf("after Use(%s) active = %v", v, active)
		}
	}

	if !strings.Contains(env.out.String(), "Now using go 1.22.0") {
		t.Errorf("missing status line, output = %q", env.out.String())
	}
}

func TestUse_NotInstalled(t *testing.T) {
	env := newTestEnv(t, newUpstream(t))
	installFake(t, env, "1.22.0")

	for _, selector := range []string{"1.23.0", "", "../..", "current"} {
		if err := env.op.Use(context.Background(), selector); !errors.Is(err, ErrVersionNotFound) {
			t.Errorf("Use(%q) error = %v, want ErrVersionNotFound", selector, err)
		}
	}
	if _, err := os.Lstat(env.op.ActiveRoot()); !os.IsNotExist(err) {
		t.Errorf("no link should be created on failure: %v", err)
	}
}

func TestUninstall_ActiveLink(t *testing.T) {
	tests := []struct {
		name       string
		active     string
		remove     string
		wantActive bool
	}{
		{name: "removing active version clears link", active: "1.22.0", remove: "1.22.0", wantActive: false},
		{name: "removing other version keeps link", active: "1.21.7", remove: "1.22.0", wantActive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, newUpstream(t))
			installFake(t, env, "1.21.7", "1.22.0")
			ctx := context.Background()

			if err := env.op.Use(ctx, tt.active); err != nil {
				t.Fatal(err)
			}
			if err := env.op.Uninstall(ctx, []string{tt.remove}); err != nil {
				t.Fatalf("Uninstall() error = %v", err)
			}

			if _, err := os.Stat(env.versionDir(tt.remove)); !os.IsNotExist(err) {
				t.Errorf("install dir still exists: %v", err)
			}

			name, ok, err := env.op.Current()
			if err != nil {
				t.Fatalf("Current() error = %v", err)
			}
			if ok != tt.wantActive {
				t.Errorf("Current() ok = %v, want %v", ok, tt.wantActive)
			}
			if tt.wantActive && name != tt.active {
				t.Errorf("Current() = %q, want %q", name, tt.active)
			}
		})
	}
}

func TestUninstall_ContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t, newUpstream(t))
	installFake(t, env, "1.21.7", "1.22.0")

	err := env.op.Uninstall(context.Background(), []string{"1.21.7", "1.99.0", "1.22.0"})
	if err != nil {
		t.Fatalf("Uninstall() error = %v, per-item failures must not be returned", err)
	}

	for _, v := range []string{"1.21.7", "1.22.0"} {
		if _, err := os.Stat(env.versionDir(v)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed: %v", v, err)
		}
	}
	if !strings.Contains(env.errOut.String(), "1.99.0") {
		t.Errorf("missing per-item error, stderr = %q", env.errOut.String())
	}
}

func TestListLocal_SortedNewestFirst(t *testing.T) {
	env := newTestEnv(t, newUpstream(t))
	installFake(t, env, "1.9.5", "1.22.0", "1.21rc2", "1.21.7", "tip")
	if err := env.op.Use(context.Background(), "1.21.7"); err != nil {
		t.Fatal(err)
	}

	env.out.Reset()
	if err := env.op.ListLocal(render.New(render.FormatPlain, true, env.out)); err != nil {
		t.Fatal(err)
	}

	want := "  1.22.0\n* 1.21.7\n  1.21rc2\n  1.9.5\n  tip\n"
	if got := env.out.String(); got != want {
		t.Errorf("ListLocal() =\n%s\nwant\n%s", got, want)
	}
}

func TestListRemote(t *testing.T) {
	u := newUpstream(t)
	u.latest = []catalog.Entry{
		goEntry("go1.22.0", "go1.22.0.linux-amd64.tar.gz", "aa"),
		goEntry("go1.21.7", "go1.21.7.linux-amd64.tar.gz", "bb"),
	}
	u.archive = `<div id="archive"><div class="expanded">
  <div class="toggle" id="go1.21.7"><div class="expanded"><table class="downloadtable">
    <tr><td>go1.21.7.linux-amd64.tar.gz</td><td>Archive</td><td>Linux</td><td>x86-64</td><td>60MB</td><td>bb</td></tr>
  </table></div></div>
  <div class="toggle" id="go1.20.14"><div class="expanded"><table class="downloadtable">
    <tr><td>go1.20.14.linux-amd64.tar.gz</td><td>Archive</td><td>Linux</td><td>x86-64</td><td>60MB</td><td>cc</td></tr>
  </table></div></div>
</div></div>`

	tests := []struct {
		name string
		all  bool
		want string
	}{
		{name: "latest only", all: false, want: "1.22.0\n1.21.7\n"},
		{name: "with archive", all: true, want: "1.22.0\n1.21.7\n1.20.14\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, u)
			if err := env.op.ListRemote(context.Background(), tt.all, render.New(render.FormatPlain, true, env.out)); err != nil {
				t.Fatalf("ListRemote() error = %v", err)
			}
			if got := env.out.String(); got != tt.want {
				t.Errorf("ListRemote() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.22.0", "1.9.5", true},
		{"1.21.7", "1.21rc2", true},
		{"1.21rc2", "1.21.7", false},
		{"1.22.0", "tip", true},
		{"tip", "1.22.0", false},
		{"abc", "tip", true},
	}
	for _, tt := range tests {
		if got := newer(tt.a, tt.b); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
