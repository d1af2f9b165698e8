package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/store"
)

// Use makes the installed version named by selector the active one.
func (o *Operator) Use(ctx context.Context, selector string) error {
	selector = strings.TrimSpace(selector)

	release, err := o.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	path, err := o.store.Resolve(selector)
	if err != nil {
		if errors.Is(err, store.ErrNotInstalled) || errors.Is(err, store.ErrInvalidSelector) {
			return fmt.Errorf("%w: %s is not installed", ErrVersionNotFound, selector)
		}
		return err
	}

	if err := o.store.Activate(path); err != nil {
		return err
	}
	o.printf("Now using %s %s\n", o.toolchain.Name(), selector)
	return nil
}

// Uninstall removes each selected version. Failures are reported per item
// and do not stop the remaining selectors; only a failure to take the lock
// is returned. If the active link targets a removed version, it is removed
// too.
func (o *Operator) Uninstall(ctx context.Context, selectors []string) error {
	release, err := o.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	for _, selector := range selectors {
		selector = strings.TrimSpace(selector)

		path, err := o.store.Remove(selector)
		if err != nil {
			o.logger.Warn("uninstall failed", "version", selector, "error", err)
			fmt.Fprintf(o.errOut, "%s: %v\n", selector, err)
			continue
		}
		o.printf("Uninstalled %s %s\n", o.toolchain.Name(), selector)

		removed, err := o.store.DeactivateIf(path)
		if err != nil {
			o.logger.Warn("could not clear active link", "version", selector, "error", err)
			fmt.Fprintf(o.errOut, "%s: %v\n", selector, err)
			continue
		}
		if removed {
			o.printf("%s %s was active; no version is active now\n", o.toolchain.Name(), selector)
		}
	}
	return nil
}

// Current returns the active version name. ok is false when none is active.
func (o *Operator) Current() (name string, ok bool, err error) {
	return o.store.Active()
}

// ActiveRoot returns the path of the active-version link, the stable
// location shells should use as GOROOT.
func (o *Operator) ActiveRoot() string {
	return o.store.LinkPath()
}
