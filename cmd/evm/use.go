package main

import "github.com/urfave/cli/v2"

func useCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:      "use",
		Aliases:   []string{"u"},
		Usage:     "Activate an installed version",
		ArgsUsage: "<version>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c, "use takes exactly one version")
			}
			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			return s.op.Use(c.Context, c.Args().First())
		},
	}
}

func uninstallCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:      "uninstall",
		Aliases:   []string{"un", "rm", "remove"},
		Usage:     "Remove installed versions",
		ArgsUsage: "<version>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return usageError(c, "uninstall requires at least one version")
			}
			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			return s.op.Uninstall(c.Context, c.Args().Slice())
		},
	}
}
