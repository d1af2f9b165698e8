package main

import "github.com/urfave/cli/v2"

func listCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls", "ll"},
		Usage:   "List installed versions",
		Flags:   listFlags(),
		Action: func(c *cli.Context) error {
			r, err := newRenderer(c)
			if err != nil {
				return err
			}
			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			return s.op.ListLocal(r)
		},
	}
}

func listRemoteCommand(toolchainName string) *cli.Command {
	return &cli.Command{
		Name:    "list-remote",
		Aliases: []string{"lr"},
		Usage:   "List versions available for download",
		Flags:   append(listFlags(), allFlag),
		Action: func(c *cli.Context) error {
			r, err := newRenderer(c)
			if err != nil {
				return err
			}
			s, err := newSession(c, toolchainName)
			if err != nil {
				return err
			}
			defer s.close()

			return s.op.ListRemote(c.Context, c.Bool(allFlag.Name), r)
		},
	}
}
