package config

import "github.com/yndnr/exitguard/internal/telemetry/logger"

// Sanitize returns a copy of the config that is safe to log.
func Sanitize(cfg *Config) *Config {
	sanitized := *cfg
	sanitized.Cluster.Join = append([]string(nil), cfg.Cluster.Join...)
	if sanitized.Sentry.DSN != "" {
		sanitized.Sentry.DSN = logger.RedactString(sanitized.Sentry.DSN)
	}
	return &sanitized
}
