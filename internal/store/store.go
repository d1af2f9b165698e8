// Package store owns the on-disk layout of installed toolchain versions.
//
// Each installed version is a real directory directly under the versions
// root. A single entry named "current" marks the active version. It is a
// symbolic link to the install directory, or, where symbolic links cannot
// be created, a pointer file holding the version name.
package store

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ZebulonRouseFrantzich/evm/internal/log"
)

// CurrentName is the reserved name of the active-version entry.
const CurrentName = "current"

// errorPrivilegeNotHeld is ERROR_PRIVILEGE_NOT_HELD, returned by Windows
// when the process may not create symbolic links.
const errorPrivilegeNotHeld = syscall.Errno(1314)

var (
	// ErrNotInstalled indicates no install directory exists for a selector.
	ErrNotInstalled = errors.New("version not installed")

	// ErrInvalidSelector indicates a selector that does not name a single
	// entry under the versions root.
	ErrInvalidSelector = errors.New("invalid version selector")

	// ErrCurrentIsDirectory indicates the active-version entry is a real
	// directory, which is never created by this package and is left alone.
	ErrCurrentIsDirectory = errors.New("active version entry is a directory, not a link")
)

// Installed describes one installed version.
type Installed struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Active bool   `json:"active" yaml:"active"`
}

// Store manages the versions root of one toolchain.
type Store struct {
	root   string
	logger log.Logger

	symlink      func(oldname, newname string) error
	allowPointer bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *Store) {
		s.logger = log.OrNop(l)
	}
}

// New creates a store rooted at root, typically {evm_home}/versions/{toolchain}.
// The directory is not created until VersionsDir is called.
func New(root string, opts ...Option) *Store {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	s := &Store{
		root:         filepath.Clean(root),
		logger:       log.Nop(),
		symlink:      os.Symlink,
		allowPointer: runtime.GOOS == "windows",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the versions root without touching the filesystem.
func (s *Store) Root() string {
	return s.root
}

// VersionsDir returns the versions root, creating it if needed.
func (s *Store) VersionsDir() (string, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("create versions directory: %w", err)
	}
	return s.root, nil
}

// LinkPath returns the path of the active-version entry.
func (s *Store) LinkPath() string {
	return filepath.Join(s.root, CurrentName)
}

// InstallPath returns the install directory for a version name. It does
// not check that the name is valid or installed.
func (s *Store) InstallPath(name string) string {
	return filepath.Join(s.root, name)
}

// PathFor returns the install directory for a version name, rejecting names
// that would not land directly under the root.
func (s *Store) PathFor(name string) (string, error) {
	if err := validateSelector(name); err != nil {
		return "", err
	}
	return s.InstallPath(name), nil
}

// ListInstalled yields every installed version. Symbolic links and regular
// files under the root are skipped. At most one entry is marked active.
// Entries come in directory order; callers sort if they need to.
func (s *Store) ListInstalled() iter.Seq2[Installed, error] {
	return func(yield func(Installed, error) bool) {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			if !os.IsNotExist(err) {
				yield(Installed{}, fmt.Errorf("read versions directory: %w", err))
			}
			return
		}

		active, hasActive, err := s.ActiveTarget()
		if err != nil {
			s.logger.Warn("cannot resolve active version", "error", err)
			hasActive = false
		}

		for _, entry := range entries {
			// DirEntry.Type reports the link itself, not its target.
			if entry.Type()&os.ModeSymlink != 0 || !entry.IsDir() {
				continue
			}
			path := s.InstallPath(entry.Name())
			item := Installed{
				Name:   entry.Name(),
				Path:   path,
				Active: hasActive && path == active,
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Resolve returns the install directory for selector, or ErrNotInstalled
// if no real directory of that name exists.
func (s *Store) Resolve(selector string) (string, error) {
	if err := validateSelector(selector); err != nil {
		return "", err
	}

	path := s.InstallPath(selector)
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotInstalled, selector)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, selector)
	}
	return path, nil
}

// Remove deletes the install directory of selector recursively. A missing
// directory is reported as ErrNotInstalled.
func (s *Store) Remove(selector string) (string, error) {
	if err := validateSelector(selector); err != nil {
		return "", err
	}

	path := s.InstallPath(selector)
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return path, fmt.Errorf("%w: %s", ErrNotInstalled, selector)
		}
		return path, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return path, fmt.Errorf("remove %s: %w", path, err)
	}
	return path, nil
}

// ActiveTarget returns the install directory the active-version entry
// points at. ok is false when no version is active.
func (s *Store) ActiveTarget() (target string, ok bool, err error) {
	link := s.LinkPath()
	info, err := os.Lstat(link)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("stat active link: %w", err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		dest, err := os.Readlink(link)
		if err != nil {
			return "", false, fmt.Errorf("read active link: %w", err)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(s.root, dest)
		}
		return filepath.Clean(dest), true, nil

	case info.Mode().IsRegular():
		data, err := os.ReadFile(link)
		if err != nil {
			return "", false, fmt.Errorf("read active pointer: %w", err)
		}
		name := strings.TrimSpace(string(data))
		if validateSelector(name) != nil {
			return "", false, fmt.Errorf("active pointer holds invalid name %q", name)
		}
		return s.InstallPath(name), true, nil

	case info.IsDir():
		return "", false, ErrCurrentIsDirectory

	default:
		return "", false, fmt.Errorf("unexpected file type for %s", link)
	}
}

// Active returns the name of the active version, if any.
func (s *Store) Active() (string, bool, error) {
	target, ok, err := s.ActiveTarget()
	if err != nil || !ok {
		return "", false, err
	}
	return filepath.Base(target), true, nil
}

// Activate points the active-version entry at installPath, replacing any
// previous link. The previous link is removed, never its target.
func (s *Store) Activate(installPath string) error {
	installPath = filepath.Clean(installPath)
	if filepath.Dir(installPath) != s.root {
		return fmt.Errorf("%w: %s is not under %s", ErrInvalidSelector, installPath, s.root)
	}
	if _, err := s.VersionsDir(); err != nil {
		return err
	}

	if err := s.removeLink(); err != nil {
		return err
	}

	link := s.LinkPath()
	err := s.symlink(installPath, link)
	if err == nil {
		s.logger.Debug("activated version", "link", link, "target", installPath)
		return nil
	}
	if !s.allowPointer || !isPrivilegeError(err) {
		return fmt.Errorf("create active link: %w", err)
	}

	s.logger.Info("symlinks unavailable, writing pointer file", "path", link)
	if err := os.WriteFile(link, []byte(filepath.Base(installPath)+"\n"), 0644); err != nil {
		return fmt.Errorf("write active pointer: %w", err)
	}
	return nil
}

// DeactivateIf removes the active-version entry when it points at
// installPath. It reports whether the entry was removed.
func (s *Store) DeactivateIf(installPath string) (bool, error) {
	target, ok, err := s.ActiveTarget()
	if err != nil || !ok {
		return false, err
	}
	if target != filepath.Clean(installPath) {
		return false, nil
	}
	if err := s.removeLink(); err != nil {
		return false, err
	}
	return true, nil
}

// removeLink deletes the link or pointer file itself. A real directory is
// refused.
func (s *Store) removeLink() error {
	link := s.LinkPath()
	info, err := os.Lstat(link)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat active link: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrCurrentIsDirectory, link)
	}
	if err := os.Remove(link); err != nil {
		return fmt.Errorf("remove active link: %w", err)
	}
	return nil
}

func validateSelector(selector string) error {
	switch {
	case selector == "", selector == ".", selector == "..":
		return fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	case selector == CurrentName:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidSelector, selector)
	case strings.ContainsAny(selector, `/\`):
		return fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}
	return nil
}

func isPrivilegeError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == errorPrivilegeNotHeld {
		return true
	}
	return errors.Is(err, os.ErrPermission)
}
