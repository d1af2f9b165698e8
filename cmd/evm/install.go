package main

import "github.com/urfave/cli/v2"

func installCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:      "install",
		Aliases:   []string{"in", "i"},
		Usage:     "Download and install a version",
		ArgsUsage: "<version>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c, "install takes exactly one version")
			}
			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			return s.op.Install(c.Context, c.Args().First())
		},
	}
}
