package operator

import "errors"

var (
	// ErrVersionNotFound indicates no catalog entry or installed version
	// matches the selector.
	ErrVersionNotFound = errors.New("version not found")

	// ErrNoArtifactForPlatform indicates a matching release has no
	// extractable artifact for the running OS and architecture.
	ErrNoArtifactForPlatform = errors.New("no artifact for this platform")
)
