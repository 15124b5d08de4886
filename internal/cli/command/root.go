package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/exitguard/internal/cli/output"
	"github.com/yndnr/exitguard/internal/config"
	"github.com/yndnr/exitguard/internal/infra/buildinfo"
	"github.com/yndnr/exitguard/internal/infra/confloader"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "exitguard",
		Usage:   "run cleanup listeners before the process terminates",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			HistoryCommand(),
			BroadcastCommand(),
			VersionCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to the YAML configuration file",
			EnvVars: []string{confloader.DefaultEnvPrefix + "CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "override log.level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
	}
}

// overrides turns set flags into dotted configuration keys.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("log-level") {
		m["log.level"] = c.String("log-level")
	}
	return m
}

// loadConfig loads and verifies the configuration named by the global flags.
func loadConfig(c *cli.Context) (*config.Config, *confloader.Loader, error) {
	cfg, loader, err := config.Load(c.String("config"), overrides(c))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loader, nil
}

// render writes data in the format chosen by --output.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}
