package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrDownloadFailed indicates the artifact could not be retrieved.
	ErrDownloadFailed = errors.New("download failed")

	// ErrChecksumMismatch indicates the artifact's SHA-256 digest differs
	// from the recorded checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrSignatureInvalid indicates OpenPGP signature verification failed.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrUnknownArchiveFormat indicates the archive type could not be
	// determined from the file name.
	ErrUnknownArchiveFormat = errors.New("unknown archive format")

	// ErrExtractionFailed indicates an I/O or format error while unpacking.
	ErrExtractionFailed = errors.New("extraction failed")
)

// StatusError reports a non-success HTTP response for an artifact download.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %q failed, status: %s", e.URL, e.Status)
}

// Unwrap lets callers match StatusError with errors.Is(err, ErrDownloadFailed).
func (e *StatusError) Unwrap() error {
	return ErrDownloadFailed
}

// MismatchError carries both digests of a failed checksum comparison.
type MismatchError struct {
	Filename string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s:\nactual:   %s\nexpected: %s", e.Filename, e.Actual, e.Expected)
}

// Unwrap lets callers match MismatchError with errors.Is(err, ErrChecksumMismatch).
func (e *MismatchError) Unwrap() error {
	return ErrChecksumMismatch
}
