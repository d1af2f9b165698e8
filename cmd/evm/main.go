// Command evm manages installed versions of developer toolchains.
//
// Usage:
//
//	evm go list                 installed versions, active one marked
//	evm go list-remote [--all]  versions available upstream
//	evm go install <version>
//	evm go use <version>
//	evm go uninstall <version>...
//	evm go current
//	evm go env [shell]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	app := newApp()
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// exitErrHandler prints err and exits, keeping exit codes from cli.Exit.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitCoder.Error(); msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
