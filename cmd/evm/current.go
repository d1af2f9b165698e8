package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ZebulonRouseFrantzich/evm/internal/shell"
)

func currentCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:    "current",
		Aliases: []string{"c"},
		Usage:   "Print the active version",
		Action: func(c *cli.Context) error {
			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			name, ok, err := s.op.Current()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.App.Writer, "no active version")
				return nil
			}
			fmt.Fprintln(c.App.Writer, name)
			return nil
		},
	}
}

func envCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:      "env",
		Usage:     "Print shell commands that put the active version on PATH",
		ArgsUsage: "[bash|zsh|fish]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return usageError(c, "env takes at most one shell name")
			}

			var sh shell.ShellType
			if c.NArg() == 1 {
				parsed, err := shell.Parse(c.Args().First())
				if err != nil {
					return usageError(c, "%v", err)
				}
				sh = parsed
			} else {
				detected := shell.DetectShell()
				if !detected.Shell.IsValid() {
					return fmt.Errorf("could not detect your shell; pass one of bash, zsh, fish")
				}
				sh = detected.Shell
			}

			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			snippet, err := shell.GenerateEnv(sh, s.op.ActiveRoot())
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, snippet)
			return nil
		},
	}
}
