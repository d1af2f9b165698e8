package main

import "github.com/urfave/cli/v2"

// Global flags, readable from any subcommand.
var (
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}

	mirrorFlag = &cli.StringFlag{
		Name:  "mirror",
		Usage: "Base URL for catalog queries and downloads",
	}

	keyringFlag = &cli.StringFlag{
		Name:  "keyring",
		Usage: "OpenPGP keyring used to verify downloads against their .asc signatures",
	}
)

// Listing flags.
var (
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: plain, json, yaml",
		Value:   "plain",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	allFlag = &cli.BoolFlag{
		Name:    "all",
		Aliases: []string{"a"},
		Usage:   "Include archived releases",
	}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{verboseFlag, logLevelFlag, mirrorFlag, keyringFlag}
}

func listFlags() []cli.Flag {
	return []cli.Flag{formatFlag, noColorFlag}
}
