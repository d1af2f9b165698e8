package artifact

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZebulonRouseFrantzich/evm/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestExtract_TarGz(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "go1.21.0.linux-amd64.tar.gz")
	testutil.WriteTarGz(t, archive, map[string]string{
		"go/":             "",
		"go/VERSION":      "go1.21.0",
		"go/bin/go":       "#!/bin/sh\n",
		"go/src/fmt/x.go": "package fmt",
	})

	e := NewExtractorIn(t.TempDir())
	dir, err := e.Extract(archive)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := map[string]string{
		"go/VERSION":      "go1.21.0",
		"go/bin/go":       "#!/bin/sh\n",
		"go/src/fmt/x.go": "package fmt",
	}
	if diff := cmp.Diff(want, testutil.ReadTree(t, dir)); diff != "" {
		t.Errorf("extracted tree mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Zip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "go1.21.0.windows-amd64.zip")
	testutil.WriteZip(t, archive, map[string]string{
		"go/":           "",
		"go/VERSION":    "go1.21.0",
		"go/bin/go.exe": "MZ",
	})

	e := NewExtractorIn(t.TempDir())
	dir, err := e.Extract(archive)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := map[string]string{
		"go/VERSION":    "go1.21.0",
		"go/bin/go.exe": "MZ",
	}
	if diff := cmp.Diff(want, testutil.ReadTree(t, dir)); diff != "" {
		t.Errorf("extracted tree mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_UniqueDirectories(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "go.tar.gz")
	testutil.WriteTarGz(t, archive, map[string]string{"go/VERSION": "go1.21.0"})

	root := t.TempDir()
	e := NewExtractorIn(root)

	first, err := e.Extract(archive)
	if err != nil {
		t.Fatalf("first Extract() error = %v", err)
	}
	second, err := e.Extract(archive)
	if err != nil {
		t.Fatalf("second Extract() error = %v", err)
	}

	if first == second {
		t.Errorf("Extract() returned the same directory twice: %s", first)
	}
	for _, dir := range []string{first, second} {
		if filepath.Dir(dir) != root {
			t.Errorf("Extract() dir %s is not under %s", dir, root)
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "no extension", file: "go-archive", content: "data", wantErr: ErrUnknownArchiveFormat},
		{name: "corrupt tarball", file: "go.tar.gz", content: "not gzip", wantErr: ErrExtractionFailed},
		{name: "corrupt zip", file: "go.zip", content: "not zip", wantErr: ErrExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(archive, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			root := t.TempDir()
			_, err := NewExtractorIn(root).Extract(archive)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
			}

			entries, _ := os.ReadDir(root)
			if len(entries) != 0 {
				t.Errorf("temp root should be empty after failure, found %d entries", len(entries))
			}
		})
	}
}

func TestExtract_PathTraversal(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{name: "parent directory", entry: "../evil"},
		{name: "nested parent directory", entry: "go/../../evil"},
		{name: "deep traversal", entry: "a/b/../../../../../evil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), "go.tar.gz")
			testutil.WriteTarGz(t, archive, map[string]string{tt.entry: "pwned"})

			root := t.TempDir()
			_, err := NewExtractorIn(root).Extract(archive)
			if !errors.Is(err, ErrExtractionFailed) {
				t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
			}
			if _, statErr := os.Stat(filepath.Join(root, "evil")); !os.IsNotExist(statErr) {
				t.Error("traversal entry was written outside the extraction dir")
			}
		})
	}
}

func TestExtract_SymlinkEscape(t *testing.T) {
	tests := []struct {
		name    string
		entries []tarEntry
	}{
		{
			name:    "relative target above root",
			entries: []tarEntry{symlinkEntry("go/link", "../../../etc")},
		},
		{
			name:    "absolute target",
			entries: []tarEntry{symlinkEntry("go/link", "/etc")},
		},
		{
			name: "chained links",
			entries: []tarEntry{
				dirEntry("go/d/"),
				symlinkEntry("go/d/l", ".."),
				symlinkEntry("go/d/l/x", "../.."),
				fileEntry("go/d/l/x/escaped.txt", "pwned"),
			},
		},
		{
			name: "link through collapsed parent",
			entries: []tarEntry{
				dirEntry("go/d/"),
				symlinkEntry("go/d/l", ".."),
				symlinkEntry("go/y", "d/l/../../.."),
				fileEntry("go/y/escaped.txt", "pwned"),
			},
		},
		{
			name: "hard link above root",
			entries: []tarEntry{
				{header: tar.Header{Name: "go/hard", Linkname: "../outside.txt", Typeflag: tar.TypeLink}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			if err := os.WriteFile(filepath.Join(base, "outside.txt"), []byte("keep"), 0644); err != nil {
				t.Fatal(err)
			}
			archive := filepath.Join(base, "go.tar.gz")
			writeTarEntries(t, archive, tt.entries)

			tempRoot := filepath.Join(base, "a", "b")
			_, err := NewExtractorIn(tempRoot).Extract(archive)
			if !errors.Is(err, ErrExtractionFailed) {
				t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
			}

			filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
				if err == nil && d.Name() == "escaped.txt" {
					t.Errorf("file written outside extraction dir at %s", path)
				}
				return nil
			})
			entries, err := os.ReadDir(tempRoot)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Errorf("temp root not cleaned up: %v", entries)
			}
		})
	}
}

func TestExtract_SymlinkWithinArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "go.tar.gz")
	writeTarEntries(t, archive, []tarEntry{
		fileEntry("go/bin/gofmt", "fmt"),
		symlinkEntry("go/bin/gofmt-link", "gofmt"),
		dirEntry("go/real/"),
		symlinkEntry("go/lib", "real"),
		fileEntry("go/lib/f.txt", "through link"),
	})

	dir, err := NewExtractorIn(t.TempDir()).Extract(archive)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	target, err := os.Readlink(filepath.Join(dir, "go", "bin", "gofmt-link"))
	if err != nil {
		t.Fatalf("Readlink() error = %v", err)
	}
	if target != "gofmt" {
		t.Errorf("link target = %q, want %q", target, "gofmt")
	}

	got, err := os.ReadFile(filepath.Join(dir, "go", "real", "f.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "through link" {
		t.Errorf("content = %q, want %q", got, "through link")
	}
}

func TestExtract_HardLink(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "go.tar.gz")
	writeTarEntries(t, archive, []tarEntry{
		fileEntry("go/bin/go", "binary"),
		{header: tar.Header{Name: "go/pkg/tool/go", Linkname: "go/bin/go", Typeflag: tar.TypeLink}},
	})

	dir, err := NewExtractorIn(t.TempDir()).Extract(archive)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	original, err := os.Stat(filepath.Join(dir, "go", "bin", "go"))
	if err != nil {
		t.Fatal(err)
	}
	linked, err := os.Stat(filepath.Join(dir, "go", "pkg", "tool", "go"))
	if err != nil {
		t.Fatalf("hard link missing: %v", err)
	}
	if !os.SameFile(original, linked) {
		t.Error("hard link does not share the original file")
	}
}

func TestExtract_RejectsUnsupportedEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry tarEntry
	}{
		{name: "fifo", entry: tarEntry{header: tar.Header{Name: "go/pipe", Typeflag: tar.TypeFifo, Mode: 0o644}}},
		{name: "char device", entry: tarEntry{header: tar.Header{Name: "go/tty", Typeflag: tar.TypeChar, Mode: 0o644}}},
		{name: "hard link to missing entry", entry: tarEntry{header: tar.Header{Name: "go/hard", Linkname: "go/missing", Typeflag: tar.TypeLink}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), "go.tar.gz")
			writeTarEntries(t, archive, []tarEntry{fileEntry("go/VERSION", "go1.22.0"), tt.entry})

			_, err := NewExtractorIn(t.TempDir()).Extract(archive)
			if !errors.Is(err, ErrExtractionFailed) {
				t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
			}
		})
	}
}

type tarEntry struct {
	header tar.Header
	body   string
}

func fileEntry(name, body string) tarEntry {
	return tarEntry{header: tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body))}, body: body}
}

func dirEntry(name string) tarEntry {
	return tarEntry{header: tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0o755}}
}

func symlinkEntry(name, linkname string) tarEntry {
	return tarEntry{header: tar.Header{Name: name, Linkname: linkname, Typeflag: tar.TypeSymlink, Mode: 0o777}}
}

func writeTarEntries(t *testing.T, path string, entries []tarEntry) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gzipWriter := gzip.NewWriter(f)
	tarWriter := tar.NewWriter(gzipWriter)
	for _, e := range entries {
		header := e.header
		if err := tarWriter.WriteHeader(&header); err != nil {
			t.Fatal(err)
		}
		if e.body != "" {
			if _, err := tarWriter.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tarWriter.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatal(err)
	}
}
