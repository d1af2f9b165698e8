package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector paths into the upstream download page. Each archived release is a
// toggle section whose id is the release ID; its expanded body holds a
// download table whose columns are, in order: filename, kind, OS, arch,
// size, checksum.
const (
	archiveRootSelector    = "#archive"
	archiveReleaseSelector = "#archive .expanded div.toggle"
	archiveRowSelector     = ".expanded table.downloadtable tr"
	archiveColumns         = 6
)

// ParseArchive scrapes archived releases from the download page markup.
func ParseArchive(data []byte) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse archive page: %v", ErrCatalogParse, err)
	}

	if doc.Find(archiveRootSelector).Length() == 0 {
		return nil, fmt.Errorf("%w: archive section %q not found", ErrCatalogParse, archiveRootSelector)
	}

	var entries []Entry
	doc.Find(archiveReleaseSelector).Each(func(_ int, release *goquery.Selection) {
		id, ok := release.Attr("id")
		if !ok || strings.TrimSpace(id) == "" {
			return
		}
		id = strings.TrimSpace(id)

		entry := Entry{ID: id, Stable: false}
		release.Find(archiveRowSelector).Each(func(_ int, row *goquery.Selection) {
			if artifact, ok := parseArchiveRow(id, row); ok {
				entry.Files = append(entry.Files, artifact)
			}
		})
		entries = append(entries, entry)
	})

	return entries, nil
}

// parseArchiveRow maps one table row to an Artifact. Header rows (th cells)
// and short rows are skipped.
func parseArchiveRow(version string, row *goquery.Selection) (Artifact, bool) {
	cells := row.Find("td")
	if cells.Length() < archiveColumns {
		return Artifact{}, false
	}

	text := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	return Artifact{
		Filename: text(0),
		Kind:     strings.ToLower(text(1)),
		OS:       text(2),
		Arch:     text(3),
		Version:  version,
		Size:     parseSize(text(4)),
		SHA256:   text(5),
	}, true
}

// parseSize converts a "65MB" style cell to bytes. Unparseable sizes are 0.
func parseSize(s string) uint64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "MB"))
	mb, err := strconv.ParseFloat(s, 64)
	if err != nil || mb < 0 {
		return 0
	}
	return uint64(mb * 1024 * 1024)
}
