package shell

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GenerateEnv returns the snippet that exports GOROOT as goroot and
// prepends its bin directory to PATH.
func GenerateEnv(shell ShellType, goroot string) (string, error) {
	if !shell.IsValid() {
		return "", &UnsupportedShellError{Shell: shell.String()}
	}

	bin := filepath.Join(goroot, "bin")

	switch shell {
	case ShellFish:
		return fmt.Sprintf("set -gx GOROOT %s;\nfish_add_path --global --move --path %s;\n",
			quoteFish(goroot), quoteFish(bin)), nil
	default:
		return fmt.Sprintf("export GOROOT=%s\nexport PATH=%s:\"$PATH\"\n",
			quotePOSIX(goroot), quotePOSIX(bin)), nil
	}
}

// quotePOSIX single-quotes s for sh-compatible shells.
func quotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteFish single-quotes s for fish, which only escapes \ and ' inside quotes.
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}
