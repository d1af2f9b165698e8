package operator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ZebulonRouseFrantzich/evm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/evm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
	"github.com/ZebulonRouseFrantzich/evm/internal/testutil"
	"github.com/ZebulonRouseFrantzich/evm/internal/toolchain"
)

// upstream imitates the Go download site: the JSON feed and archive page
// at "/", and artifacts at "/{filename}".
type upstream struct {
	t       *testing.T
	latest  []catalog.Entry
	archive string
	files   map[string][]byte

	latestHits  int32
	archiveHits int32
	fileHits    int32
}

func newUpstream(t *testing.T) *upstream {
	return &upstream{t: t, files: map[string][]byte{}, archive: `<div id="archive"></div>`}
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		if r.URL.Query().Get("mode") == "json" {
			atomic.AddInt32(&u.latestHits, 1)
			json.NewEncoder(w).Encode(u.latest)
			return
		}
		atomic.AddInt32(&u.archiveHits, 1)
		fmt.Fprint(w, u.archive)
		return
	}

	atomic.AddInt32(&u.fileHits, 1)
	data, ok := u.files[strings.TrimPrefix(r.URL.Path, "/")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write(data)
}

// addTarball publishes a tarball named filename built from files and
// returns its digest.
func (u *upstream) addTarball(filename string, files map[string]string) string {
	u.t.Helper()
	path := filepath.Join(u.t.TempDir(), filename)
	testutil.WriteTarGz(u.t, path, files)
	data, err := os.ReadFile(path)
	if err != nil {
		u.t.Fatal(err)
	}
	u.files[filename] = data
	return artifact.SHA256(data)
}

func goEntry(id, filename, sum string) catalog.Entry {
	return catalog.Entry{
		ID:     id,
		Stable: true,
		Files: []catalog.Artifact{
			{Filename: id + ".src.tar.gz", Kind: catalog.KindSource, SHA256: "00"},
			{Filename: filename, OS: "linux", Arch: "amd64", Version: id, SHA256: sum, Kind: catalog.KindArchive},
		},
	}
}

type testEnv struct {
	home     string
	upstream *upstream
	op       *Operator
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func newTestEnv(t *testing.T, u *upstream, opts ...Option) *testEnv {
	t.Helper()
	server := httptest.NewServer(u)
	t.Cleanup(server.Close)

	home := testutil.SetupTestEnv(t)
	env := &testEnv{home: home, upstream: u, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}

	base := []Option{
		WithPlatform(&platform.Info{OS: "linux", Arch: "amd64"}),
		WithOutput(env.out),
		WithErrorOutput(env.errOut),
	}
	env.op = New(toolchain.NewGo(server.URL), home, append(base, opts...)...)
	return env
}

func (e *testEnv) versionDir(name string) string {
	return filepath.Join(e.home, "versions", "go", name)
}
