package operator

import (
	"context"
	"sort"

	"github.com/ZebulonRouseFrantzich/evm/internal/render"
	"github.com/ZebulonRouseFrantzich/evm/internal/store"
	"github.com/ZebulonRouseFrantzich/evm/internal/toolchain"
	goversion "github.com/hashicorp/go-version"
)

// Installed returns the installed versions, newest first.
func (o *Operator) Installed() ([]store.Installed, error) {
	var items []store.Installed
	for item, err := range o.store.ListInstalled() {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	o.logger.Debug("listed installed versions", "root", o.store.Root(), "count", len(items))
	sort.SliceStable(items, func(i, j int) bool {
		return newer(items[i].Name, items[j].Name)
	})
	return items, nil
}

// ListLocal writes the installed versions, marking the active one.
func (o *Operator) ListLocal(r *render.Renderer) error {
	items, err := o.Installed()
	if err != nil {
		return err
	}

	rows := make([]render.Local, 0, len(items))
	for _, item := range items {
		rows = append(rows, render.Local{Name: item.Name, Path: item.Path, Active: item.Active})
	}
	return r.Local(rows)
}

// Remote returns the catalog versions in catalog order. With all set,
// archived releases not already in the current feed are appended.
func (o *Operator) Remote(ctx context.Context, all bool) ([]render.Remote, error) {
	entries, err := o.fetcher.FetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	if all {
		archived, err := o.fetcher.FetchArchive(ctx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, archived...)
	}

	seen := make(map[string]bool, len(entries))
	rows := make([]render.Remote, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		rows = append(rows, render.Remote{
			Version:   toolchain.VersionName(o.toolchain, e.ID),
			Stable:    e.Stable,
			Artifacts: len(e.Files),
		})
	}
	return rows, nil
}

// ListRemote writes the catalog versions.
func (o *Operator) ListRemote(ctx context.Context, all bool, r *render.Renderer) error {
	rows, err := o.Remote(ctx, all)
	if err != nil {
		return err
	}
	return r.Remote(rows)
}

// newer orders version names descending. Names that do not parse as
// versions sort after those that do, alphabetically.
func newer(a, b string) bool {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if !va.Equal(vb) {
			return va.GreaterThan(vb)
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
