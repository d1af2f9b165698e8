package operator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/evm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/evm/internal/toolchain"
)

// Install resolves selector against the catalog and installs the matching
// release for this platform. An existing install of the same version is
// replaced only after the new payload has been extracted.
func (o *Operator) Install(ctx context.Context, selector string) error {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return fmt.Errorf("%w: empty version selector", ErrVersionNotFound)
	}

	release, err := o.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	entry, err := o.findEntry(ctx, selector)
	if err != nil {
		return err
	}
	file, err := o.selectArtifact(entry)
	if err != nil {
		return err
	}

	name := toolchain.VersionName(o.toolchain, entry.ID)
	installPath, err := o.store.PathFor(name)
	if err != nil {
		return fmt.Errorf("catalog entry %q: %w", entry.ID, err)
	}

	o.printf("Installing version %s...\n", name)

	url := o.toolchain.DownloadURL(file.Filename)
	archivePath, err := o.downloader.Fetch(ctx, url, file.Filename, file.SHA256)
	if err != nil {
		return err
	}
	o.printf("Download file completed '%s'\n", archivePath)

	if o.verifier != nil {
		signature, err := o.downloader.FetchBytes(ctx, url+".asc")
		if err != nil {
			return fmt.Errorf("%w: fetch signature: %w", artifact.ErrSignatureInvalid, err)
		}
		if err := o.verifier.Verify(archivePath, signature); err != nil {
			return err
		}
		o.logger.Debug("signature verified", "file", file.Filename)
	}

	if _, err := o.store.VersionsDir(); err != nil {
		return err
	}

	tempDir, err := o.extractor.Extract(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			o.logger.Warn("failed to remove temp dir", "path", tempDir, "error", err)
		}
	}()

	payload := filepath.Join(tempDir, o.toolchain.Name())
	if info, err := os.Stat(payload); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: archive %s has no %s/ directory", artifact.ErrExtractionFailed, file.Filename, o.toolchain.Name())
	}

	if err := os.RemoveAll(installPath); err != nil {
		return fmt.Errorf("remove previous install: %w", err)
	}
	if err := os.Rename(payload, installPath); err != nil {
		return fmt.Errorf("move payload into %s: %w", installPath, err)
	}

	o.printf("Extract file to '%s'\n", installPath)
	o.logger.Info("installed version", "version", name, "path", installPath)
	return nil
}

// findEntry returns the first catalog entry whose ID contains selector. The
// archive is only consulted when no current release matches.
func (o *Operator) findEntry(ctx context.Context, selector string) (catalog.Entry, error) {
	latest, err := o.fetcher.FetchLatest(ctx)
	if err != nil {
		return catalog.Entry{}, err
	}
	if entry, ok := matchEntry(latest, selector); ok {
		return entry, nil
	}

	o.logger.Debug("no current release matches, searching archive", "selector", selector)
	archived, err := o.fetcher.FetchArchive(ctx)
	if err != nil {
		return catalog.Entry{}, err
	}
	if entry, ok := matchEntry(archived, selector); ok {
		return entry, nil
	}

	return catalog.Entry{}, fmt.Errorf("%w: %s", ErrVersionNotFound, selector)
}

func matchEntry(entries []catalog.Entry, selector string) (catalog.Entry, bool) {
	for _, e := range entries {
		if strings.Contains(e.ID, selector) {
			return e, true
		}
	}
	return catalog.Entry{}, false
}

// selectArtifact returns the first file of entry built for this platform
// that can be extracted. Installers are never chosen.
func (o *Operator) selectArtifact(entry catalog.Entry) (catalog.Artifact, error) {
	for _, f := range entry.Files {
		if o.matcher.Matches(f.Filename) && extractable(f) {
			return f, nil
		}
	}
	return catalog.Artifact{}, fmt.Errorf("%w: %s for %s", ErrNoArtifactForPlatform, entry.ID, o.matcher.Pair())
}

func extractable(f catalog.Artifact) bool {
	name := strings.ToLower(f.Filename)
	switch {
	case strings.HasSuffix(name, ".msi"), strings.HasSuffix(name, ".pkg"):
		return false
	case strings.EqualFold(f.Kind, catalog.KindInstaller):
		return false
	case strings.EqualFold(f.Kind, catalog.KindArchive):
		return true
	}
	return strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz") || strings.HasSuffix(name, ".zip")
}
