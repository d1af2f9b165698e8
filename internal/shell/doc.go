// Package shell detects the user's shell and generates the snippet printed
// by `evm env`.
//
// The snippet points GOROOT at the active-version link of the versions root
// and puts its bin directory first on PATH. Because the link is what `evm
// use` swaps, the snippet only needs to be evaluated once per shell:
//
//	# bash / zsh
//	eval "$(evm env)"
//
//	# fish
//	evm env fish | source
//
// # Shell Detection
//
// Shell detection tries two methods:
//  1. $SHELL environment variable (most reliable)
//  2. Parent process name, via gopsutil (fallback)
package shell
