// Package testutil provides utilities for testing evm in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points HOME and EVM_HOME at fresh temporary directories so
// tests never touch a real installation. It returns the EVM_HOME path.
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	home := filepath.Join(tmpDir, "home")
	evmHome := filepath.Join(home, ".evm")

	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("EVM_HOME", evmHome)
	t.Setenv("EVM_MIRROR", "")
	t.Setenv("EVM_LOG_LEVEL", "")

	if err := os.MkdirAll(evmHome, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", evmHome, err)
	}

	return evmHome
}
