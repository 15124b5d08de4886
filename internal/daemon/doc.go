// Package daemon wires the exitguard run command: a long-running process
// whose resources are released by a shutdown.Coordinator.
//
// Start brings up, in order, the metrics endpoint, cluster membership, the
// pid file and the configuration watcher, and registers one cleanup
// listener for each. Shutdown reports go to the journal and, when
// configured, listener failures go to Sentry.
package daemon
