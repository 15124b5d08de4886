// Package config defines the exitguard daemon configuration.
package config

import "time"

// Config is the root configuration for exitguard run.
type Config struct {
	Log      LogSection      `koanf:"log"`
	Shutdown ShutdownSection `koanf:"shutdown"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Journal  JournalSection  `koanf:"journal"`
	Cluster  ClusterSection  `koanf:"cluster"`
	Sentry   SentrySection   `koanf:"sentry"`
	PIDFile  string          `koanf:"pid_file"`
}

// LogSection configures logging. Level is reapplied when the file changes.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ShutdownSection configures the coordinator.
type ShutdownSection struct {
	// Timeout bounds a cleanup run; zero waits for every listener.
	Timeout time.Duration `koanf:"timeout"`

	// ReraiseGrace is how long a re-raised signal may take to end the
	// process before it exits with 128+signo.
	ReraiseGrace time.Duration `koanf:"reraise_grace"`

	// StdinMessages reads supervisor messages, one per line, from stdin.
	StdinMessages bool `koanf:"stdin_messages"`
}

// MetricsSection configures the Prometheus endpoint. An empty Addr disables it.
type MetricsSection struct {
	Addr string `koanf:"addr"`
}

// JournalSection configures the shutdown report store. An empty Dir
// disables it.
type JournalSection struct {
	Dir    string `koanf:"dir"`
	Retain int    `koanf:"retain"`
}

// ClusterSection configures gossip membership.
type ClusterSection struct {
	Enabled  bool     `koanf:"enabled"`
	NodeName string   `koanf:"node_name"`
	BindAddr string   `koanf:"bind_addr"`
	BindPort int      `koanf:"bind_port"`
	Join     []string `koanf:"join"`
}

// SentrySection configures error reporting. An empty DSN disables it.
type SentrySection struct {
	DSN         string `koanf:"dsn"`
	Environment string `koanf:"environment"`
}
