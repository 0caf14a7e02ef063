package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/bashhack/dirtrack/internal/config"
)

// globalFlags lists every command-line flag. Defaults live in config.New;
// a flag only overrides the config file and environment when it is set.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "watch-dir",
			Usage: "directory tree to track (must be a git work tree)",
		},
		&cli.StringFlag{
			Name:  "state-file",
			Usage: "path of the JSON snapshot kept between checks",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "path of the append-only event log",
		},
		&cli.IntFlag{
			Name:  "interval",
			Usage: "seconds between checks in daemon mode (default 1800)",
		},
		&cli.BoolFlag{
			Name:  "daemon",
			Usage: "check continuously until interrupted",
		},
		&cli.BoolFlag{
			Name:  "once",
			Usage: "run a single check and exit (default)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "directory name to skip at any depth, repeatable (default .git)",
		},
		&cli.IntFlag{
			Name:  "max-preview",
			Usage: "paths listed per change category in summaries (default 20)",
		},
		&cli.StringFlag{
			Name:  "commit-prefix",
			Usage: "commit message prefix (default \"Auto-commit\")",
		},
		&cli.BoolFlag{
			Name:  "no-push",
			Usage: "commit without pushing",
		},
		&cli.IntFlag{
			Name:  "max-skipped",
			Usage: "fail a check when more files than this cannot be read (0 disables)",
		},
		&cli.BoolFlag{
			Name:  "watch-events",
			Usage: "in daemon mode, also check shortly after files change",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "write debug records to the log file",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "only show warnings and errors",
		},
		&cli.StringFlag{
			Name:  "config-file",
			Usage: "YAML file with default settings",
		},
		&cli.BoolFlag{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "print version information and exit",
		},
	}
}

// loadConfig layers the config file, the environment and the flags set on
// cmd onto cfg, in that order.
func loadConfig(cfg *config.Config, cmd *cli.Command) error {
	configFile := cmd.String("config-file")
	if configFile == "" {
		configFile = config.ConfigFileFromEnvironment()
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return err
		}
	}

	cfg.LoadFromEnvironment()

	if cmd.IsSet("watch-dir") {
		cfg.WatchDir = cmd.String("watch-dir")
	}
	if cmd.IsSet("state-file") {
		cfg.StateFile = cmd.String("state-file")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("interval") {
		cfg.IntervalSeconds = cmd.Int("interval")
	}
	if cmd.IsSet("daemon") {
		cfg.Daemon = cmd.Bool("daemon")
	}
	if cmd.IsSet("once") {
		cfg.Once = cmd.Bool("once")
	}
	if cmd.IsSet("exclude") {
		cfg.Excludes = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("max-preview") {
		cfg.MaxPreview = cmd.Int("max-preview")
	}
	if cmd.IsSet("commit-prefix") {
		cfg.CommitPrefix = cmd.String("commit-prefix")
	}
	if cmd.Bool("no-push") {
		cfg.Push = false
	}
	if cmd.IsSet("max-skipped") {
		cfg.MaxSkipped = cmd.Int("max-skipped")
	}
	if cmd.IsSet("watch-events") {
		cfg.WatchEvents = cmd.Bool("watch-events")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.Bool("quiet") {
		cfg.Verbose = false
	}
	cfg.Version = cmd.Bool("version")

	return nil
}

// newCommand builds the root command. Its action loads the layered
// configuration into app and runs it.
func newCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:        "dirtrack",
		Usage:       "commit and push a directory whenever its files change",
		HideVersion: true,
		Flags:       globalFlags(),
		Writer:      app.Stdout,
		ErrWriter:   app.Stderr,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := loadConfig(app.Config, cmd); err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
}
