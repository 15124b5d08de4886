package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/exitguard/internal/config"
	"github.com/yndnr/exitguard/internal/daemon"
	"github.com/yndnr/exitguard/internal/infra/buildinfo"
	"github.com/yndnr/exitguard/internal/telemetry/logger"
)

// RunCommand returns the run command, which starts the daemon.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "start the daemon and wait for a termination trigger",
		Action: runDaemon,
	}
}

func runDaemon(c *cli.Context) error {
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting exitguard",
		"version", buildinfo.Get().Version,
		"config", c.String("config"))
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	d, err := daemon.New(cfg, log, daemon.WithReloader(loader, overrides(c)))
	if err != nil {
		return err
	}
	d.Run()
	return nil
}
