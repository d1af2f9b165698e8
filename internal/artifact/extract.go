package artifact

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Extractor unpacks archives into fresh temporary directories.
type Extractor struct {
	tempRoot string
}

// NewExtractor creates an extractor that places its output under the
// system temporary directory.
func NewExtractor() *Extractor {
	return &Extractor{tempRoot: os.TempDir()}
}

// NewExtractorIn creates an extractor that places its output under root.
// Keeping root on the same filesystem as the install tree lets callers
// rename extracted payloads instead of copying them.
func NewExtractorIn(root string) *Extractor {
	if root == "" {
		return NewExtractor()
	}
	return &Extractor{tempRoot: root}
}

// Extract unpacks the archive at archivePath into a newly created, uniquely
// named directory and returns that directory. The caller owns it and must
// remove it. On failure nothing is left behind.
func (e *Extractor) Extract(archivePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(archivePath))
	if ext == "" {
		return "", fmt.Errorf("%w: cannot get extension from file: %s", ErrUnknownArchiveFormat, archivePath)
	}

	if err := os.MkdirAll(e.tempRoot, 0755); err != nil {
		return "", fmt.Errorf("%w: create temp root: %v", ErrExtractionFailed, err)
	}
	destDir := filepath.Join(e.tempRoot, "evm-"+uuid.NewString())
	if err := os.Mkdir(destDir, 0755); err != nil {
		return "", fmt.Errorf("%w: create temp dir: %v", ErrExtractionFailed, err)
	}

	var err error
	if ext == ".zip" {
		err = extractZip(archivePath, destDir)
	} else {
		err = extractTarGz(archivePath, destDir)
	}
	if err != nil {
		os.RemoveAll(destDir)
		return "", fmt.Errorf("%w: %s: %v", ErrExtractionFailed, filepath.Base(archivePath), err)
	}

	return destDir, nil
}

// extractZip walks a zip archive entry by entry.
func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	root, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return fmt.Errorf("resolve extraction dir: %w", err)
	}

	for _, f := range reader.File {
		target, err := safeJoin(root, f.Name)
		if err != nil {
			return err
		}
		if err := checkParent(root, target); err != nil {
			return err
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			if err := mkdirInside(root, target); err != nil {
				return err
			}
			continue
		}

		if err := mkdirInside(root, filepath.Dir(target)); err != nil {
			return err
		}
		if err := removeExisting(target); err != nil {
			return err
		}

		mode := f.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}
		if err := writeZipEntry(f, target, mode); err != nil {
			return err
		}
	}

	return nil
}

func writeZipEntry(f *zip.File, target string, mode os.FileMode) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer src.Close()

	return writeFile(target, src, mode)
}

// extractTarGz unpacks a gzip-compressed tarball.
func extractTarGz(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	root, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return fmt.Errorf("resolve extraction dir: %w", err)
	}

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, err := safeJoin(root, header.Name)
		if err != nil {
			return err
		}
		// Every entry is placed relative to the real location of its parent,
		// so links created by earlier entries cannot redirect it outside root.
		if err := checkParent(root, target); err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := mkdirInside(root, target); err != nil {
				return err
			}

		case tar.TypeReg:
			if err := mkdirInside(root, filepath.Dir(target)); err != nil {
				return err
			}
			if err := removeExisting(target); err != nil {
				return err
			}
			if err := writeFile(target, tarReader, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := extractSymlink(root, target, header); err != nil {
				return err
			}

		case tar.TypeLink:
			if err := extractHardLink(root, target, header); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unsupported entry type %q for %s", header.Typeflag, header.Name)
		}
	}

	return nil
}

// extractSymlink creates a symbolic link whose target must resolve inside
// root, both lexically and on disk.
func extractSymlink(root, target string, header *tar.Header) error {
	if filepath.IsAbs(header.Linkname) {
		return fmt.Errorf("illegal symlink target: %s -> %s", header.Name, header.Linkname)
	}
	if err := mkdirInside(root, filepath.Dir(target)); err != nil {
		return err
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("resolve parent of %s: %w", header.Name, err)
	}
	if !within(root, filepath.Join(parent, header.Linkname)) {
		return fmt.Errorf("illegal symlink target: %s -> %s", header.Name, header.Linkname)
	}

	if err := removeExisting(target); err != nil {
		return err
	}
	if err := os.Symlink(header.Linkname, target); err != nil {
		return fmt.Errorf("create symlink %s: %w", target, err)
	}

	// Lexical cleaning collapses "l/.." even when l is itself a link, so the
	// kernel's view of the new link is checked as well.
	if resolved, err := filepath.EvalSymlinks(target); err == nil && !within(root, resolved) {
		os.Remove(target)
		return fmt.Errorf("illegal symlink target: %s -> %s", header.Name, header.Linkname)
	}
	return nil
}

// extractHardLink links target to an entry extracted earlier in the archive.
func extractHardLink(root, target string, header *tar.Header) error {
	source, err := safeJoin(root, header.Linkname)
	if err != nil {
		return err
	}
	if err := checkParent(root, source); err != nil {
		return err
	}
	info, err := os.Lstat(source)
	if err != nil {
		return fmt.Errorf("hard link %s: %w", header.Name, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("hard link %s: %s is not a regular file", header.Name, header.Linkname)
	}

	if err := mkdirInside(root, filepath.Dir(target)); err != nil {
		return err
	}
	if err := removeExisting(target); err != nil {
		return err
	}
	if err := os.Link(source, target); err != nil {
		return fmt.Errorf("create hard link %s: %w", target, err)
	}
	return nil
}

func writeFile(target string, src io.Reader, mode os.FileMode) error {
	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(outFile, src); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}

// removeExisting clears a non-directory entry at target so that a later
// entry replaces it instead of writing through it.
func removeExisting(target string) error {
	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s already exists as a directory", target)
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}

// mkdirInside creates dir and its parents after checking that the part of
// the path that already exists really lives under root.
func mkdirInside(root, dir string) error {
	if err := checkPath(root, dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return checkPath(root, dir)
}

// checkParent verifies the real location of target's parent directory.
func checkParent(root, target string) error {
	return checkPath(root, filepath.Dir(target))
}

// checkPath resolves the deepest existing ancestor of path (following
// symlinks) and requires it to be inside root.
func checkPath(root, path string) error {
	existing := path
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return fmt.Errorf("illegal file path: %s", path)
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return fmt.Errorf("illegal file path: %s: %v", path, err)
	}
	if !within(root, resolved) {
		return fmt.Errorf("illegal file path: %s resolves outside extraction dir", path)
	}
	return nil
}

// safeJoin joins name onto root, rejecting entries that escape root.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, name)
	if !within(root, target) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

func within(root, target string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	return target == root || strings.HasPrefix(target, root+string(os.PathSeparator))
}
