// Package confloader loads layered configuration with koanf.
//
// Sources are applied in increasing priority:
//
//  1. Defaults already present in the target struct
//  2. A YAML file
//  3. Environment variables (EXITGUARD_ prefix)
//  4. Command-line flags, passed in as a map
//
// Nested keys are separated by a double underscore in the environment, so
// EXITGUARD_CLUSTER__BIND_PORT sets cluster.bind_port.
//
// Watcher reports edits of the configuration file so that settings which
// can change at runtime, such as the log level, are reapplied.
package confloader
