package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/yndnr/exitguard/internal/telemetry/logger"
)

// Verify validates the configuration and creates the journal directory.
func Verify(cfg *Config) error {
	return errors.Join(
		verifyLog(&cfg.Log),
		verifyShutdown(&cfg.Shutdown),
		verifyMetrics(&cfg.Metrics),
		verifyJournal(&cfg.Journal),
		verifyCluster(&cfg.Cluster),
		verifyPIDFile(cfg.PIDFile),
	)
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	if !logger.ValidFormat(cfg.Format) {
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	return nil
}

func verifyShutdown(cfg *ShutdownSection) error {
	if cfg.Timeout < 0 {
		return errors.New("shutdown.timeout must not be negative")
	}
	if cfg.ReraiseGrace <= 0 || cfg.ReraiseGrace > maxReraiseGrace {
		return fmt.Errorf("shutdown.reraise_grace must be in (0, %s]", maxReraiseGrace)
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if cfg.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("metrics.addr: %w", err)
	}
	return nil
}

func verifyJournal(cfg *JournalSection) error {
	if cfg.Dir == "" {
		return nil
	}
	if cfg.Retain < 0 {
		return errors.New("journal.retain must not be negative")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return fmt.Errorf("cannot create journal directory: %w", err)
	}
	return nil
}

func verifyCluster(cfg *ClusterSection) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BindPort < 0 || cfg.BindPort > 65535 {
		return fmt.Errorf("cluster.bind_port %d out of range", cfg.BindPort)
	}
	if net.ParseIP(cfg.BindAddr) == nil {
		return fmt.Errorf("cluster.bind_addr %q is not an IP address", cfg.BindAddr)
	}
	return nil
}

func verifyPIDFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("pid_file: %w", err)
	}
	return nil
}
