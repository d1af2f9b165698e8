package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/log"
)

// File holds the settings read from config.lua. Empty fields are unset.
type File struct {
	Mirror    string
	Keyring   string
	LogLevel  string
	UserAgent string
}

// Validate checks field formats.
func (f *File) Validate() error {
	if f.Mirror != "" {
		if err := validateMirror(f.Mirror); err != nil {
			return err
		}
	}
	if f.LogLevel != "" {
		if _, err := log.ParseLevel(f.LogLevel); err != nil {
			return err
		}
	}
	if strings.ContainsAny(f.UserAgent, "\r\n") {
		return fmt.Errorf("user_agent must be a single line")
	}
	return nil
}

// Config is the fully resolved configuration.
type Config struct {
	// Home is the evm home directory.
	Home string
	// Mirror replaces the toolchain's default base URL when non-empty.
	Mirror string
	// Keyring enables signature verification when non-empty.
	Keyring string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// UserAgent is sent with catalog and download requests.
	UserAgent string
	// Source is the config file that was read, or empty.
	Source string
}

func validateMirror(mirror string) error {
	u, err := url.Parse(mirror)
	if err != nil {
		return fmt.Errorf("mirror %q: %w", mirror, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("mirror %q must be an absolute http(s) URL", mirror)
	}
	return nil
}
