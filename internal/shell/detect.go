package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// parentProcessName returns the executable name of the parent process.
// Tests replace it.
var parentProcessName = func() (string, error) {
	p, err := process.NewProcess(int32(os.Getppid()))
	if err != nil {
		return "", err
	}
	return p.Name()
}

// DetectShell detects the user's shell using multiple methods
func DetectShell() *DetectionResult {
	// Method 1: $SHELL environment variable (most reliable)
	if shell := os.Getenv("SHELL"); shell != "" {
		shellType := parseShellFromPath(shell)
		if shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "$SHELL environment variable",
				ShellPath:  shell,
				Confidence: "high",
			}
		}
	}

	// Method 2: parent process (fallback)
	if name, err := parentProcessName(); err == nil {
		if shellType := parseShellFromPath(name); shellType.IsValid() {
			return &DetectionResult{
				Shell:      shellType,
				Method:     "parent process",
				ShellPath:  name,
				Confidence: "medium",
			}
		}
	}

	return &DetectionResult{
		Shell:      ShellUnknown,
		Method:     "detection failed",
		Confidence: "none",
	}
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - -zsh (login shell) -> zsh
//   - fish.exe -> fish
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(strings.TrimSpace(shellPath)))
	baseName = strings.TrimPrefix(baseName, "-")
	baseName = strings.TrimSuffix(baseName, ".exe")

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}
