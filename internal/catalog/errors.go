package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable indicates the catalog endpoint could not be
	// reached or answered with a non-success status.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrCatalogParse indicates the catalog payload did not have the
	// expected shape.
	ErrCatalogParse = errors.New("catalog parse error")
)

// StatusError reports a non-success HTTP response from a catalog endpoint.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %q failed: %s", e.URL, e.Status)
}

// Unwrap lets callers match StatusError with errors.Is(err, ErrCatalogUnavailable).
func (e *StatusError) Unwrap() error {
	return ErrCatalogUnavailable
}
