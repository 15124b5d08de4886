package config

import (
	"time"

	"github.com/yndnr/exitguard/pkg/shutdown"
)

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsAddr   = "127.0.0.1:9464"
	DefaultJournalDir    = "/var/lib/exitguard/journal"
	DefaultJournalRetain = 100

	DefaultClusterBindAddr = "0.0.0.0"
	DefaultClusterBindPort = 7946

	DefaultSentryEnvironment = "production"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Shutdown: ShutdownSection{
			ReraiseGrace: shutdown.DefaultReraiseGrace,
		},
		Metrics: MetricsSection{
			Addr: DefaultMetricsAddr,
		},
		Journal: JournalSection{
			Dir:    DefaultJournalDir,
			Retain: DefaultJournalRetain,
		},
		Cluster: ClusterSection{
			BindAddr: DefaultClusterBindAddr,
			BindPort: DefaultClusterBindPort,
		},
		Sentry: SentrySection{
			Environment: DefaultSentryEnvironment,
		},
	}
}

// maxReraiseGrace keeps a misconfigured grace from hanging a dying process.
const maxReraiseGrace = time.Minute
