package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ZebulonRouseFrantzich/evm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/evm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/evm/internal/config"
	"github.com/ZebulonRouseFrantzich/evm/internal/log"
	"github.com/ZebulonRouseFrantzich/evm/internal/operator"
	"github.com/ZebulonRouseFrantzich/evm/internal/platform"
	"github.com/ZebulonRouseFrantzich/evm/internal/render"
	"github.com/ZebulonRouseFrantzich/evm/internal/toolchain"
)

// detector is replaced in tests to pin the platform.
var detector platform.Detector = platform.NewDetector()

func newApp() *cli.App {
	app := &cli.App{
		Name:                 "evm",
		Usage:                "Install and switch between toolchain versions",
		Version:              Version,
		Flags:                globalFlags(),
		EnableBashCompletion: true,
	}
	for _, name := range toolchain.Names() {
		app.Commands = append(app.Commands, toolchainCommand(name))
	}
	return app
}

// toolchainCommand groups the version operations of one toolchain.
func toolchainCommand(name string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: fmt.Sprintf("Manage %s versions", name),
		Subcommands: []*cli.Command{
			listCommand(name),
			listRemoteCommand(name),
			installCommand(name),
			useCommand(name),
			uninstallCommand(name),
			currentCommand(name),
			envCommand(name),
		},
	}
}

// session is everything an action needs, built from flags, environment and
// config.lua.
type session struct {
	op     *operator.Operator
	cfg    *config.Config
	logger *log.ZapLogger
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func newSession(c *cli.Context, toolchainName string) (*session, error) {
	ctx := c.Context

	level := c.String(logLevelFlag.Name)
	if c.Bool(verboseFlag.Name) {
		level = "debug"
	}

	cfg, err := config.Load(ctx, detector, config.Overrides{
		Mirror:   c.String(mirrorFlag.Name),
		Keyring:  c.String(keyringFlag.Name),
		LogLevel: level,
	})
	if err != nil {
		return nil, err
	}

	logger, err := log.NewWithWriter(cfg.LogLevel, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	logger = logger.With("toolchain", toolchainName)

	info, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	tc, err := toolchain.Lookup(toolchainName, cfg.Mirror)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved configuration", "home", cfg.Home, "base", tc.BaseURL(), "config", cfg.Source,
		"os", info.OS, "arch", info.Arch)

	opts := []operator.Option{
		operator.WithPlatform(info),
		operator.WithOutput(c.App.Writer),
		operator.WithErrorOutput(c.App.ErrWriter),
		operator.WithLogger(logger),
		operator.WithFetcher(catalog.NewHTTPFetcher(tc.LatestURL(), tc.ArchiveURL(),
			catalog.WithUserAgent(cfg.UserAgent),
			catalog.WithLogger(logger),
		)),
		operator.WithDownloader(artifact.NewDownloader(operator.DownloadsDir(cfg.Home),
			artifact.WithUserAgent(cfg.UserAgent),
			artifact.WithLogger(logger),
		)),
	}
	if cfg.Keyring != "" {
		opts = append(opts, operator.WithVerifier(artifact.NewSignatureVerifier(cfg.Keyring)))
	}

	return &session{
		op:     operator.New(tc, cfg.Home, opts...),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// newRenderer builds a renderer from the listing flags.
func newRenderer(c *cli.Context) (*render.Renderer, error) {
	format, err := render.ParseFormat(c.String(formatFlag.Name))
	if err != nil {
		return nil, usageError(c, "%v", err)
	}
	return render.New(format, c.Bool(noColorFlag.Name), c.App.Writer), nil
}

// usageError reports a command invoked with the wrong arguments.
func usageError(c *cli.Context, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return cli.Exit(fmt.Sprintf("Error: %s\nUsage: %s %s", msg, c.Command.HelpName, c.Command.ArgsUsage), 2)
}
