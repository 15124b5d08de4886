// Package logger provides structured logging for exitguard.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the process default
//   - context.go: context propagation of the logger and the cleanup run ID
//   - redact.go: masking of credentials in log attributes
//
// Features:
//
//   - JSON and text output formats
//   - Runtime log level changes (used by config reload)
//   - Automatic masking of secrets and URL credentials such as Sentry DSNs
package logger
