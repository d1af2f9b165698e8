package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
)

// Overrides are command-line settings, applied last. Empty fields are unset.
type Overrides struct {
	Mirror   string
	Keyring  string
	LogLevel string
}

// Home returns the evm home directory: $EVM_HOME, else ~/.evm.
func Home() (string, error) {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return filepath.Abs(expandHome(home))
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(userHome, DefaultDirName), nil
}

// Load resolves the configuration. A missing config.lua is not an error.
func Load(ctx context.Context, detector platform.Detector, overrides Overrides) (*Config, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}

	cfg := &Config{Home: home, LogLevel: "warn"}

	path := filepath.Join(home, FileName)
	file, err := NewParser(detector).ParseFile(ctx, path)
	switch {
	case err == nil:
		cfg.Source = path
		merge(cfg, file.Mirror, file.Keyring, file.LogLevel)
		if file.UserAgent != "" {
			cfg.UserAgent = file.UserAgent
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	merge(cfg, os.Getenv(EnvMirror), "", os.Getenv(EnvLogLevel))
	merge(cfg, overrides.Mirror, overrides.Keyring, overrides.LogLevel)

	env := File{Mirror: cfg.Mirror, LogLevel: cfg.LogLevel}
	if err := env.Validate(); err != nil {
		return nil, err
	}

	if cfg.Keyring != "" {
		cfg.Keyring = expandHome(cfg.Keyring)
		if !filepath.IsAbs(cfg.Keyring) {
			cfg.Keyring = filepath.Join(home, cfg.Keyring)
		}
	}
	return cfg, nil
}

func merge(cfg *Config, mirror, keyring, level string) {
	if v := strings.TrimSpace(mirror); v != "" {
		cfg.Mirror = v
	}
	if v := strings.TrimSpace(keyring); v != "" {
		cfg.Keyring = v
	}
	if v := strings.TrimSpace(level); v != "" {
		cfg.LogLevel = v
	}
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~"))
}
