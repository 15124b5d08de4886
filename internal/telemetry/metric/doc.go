// Package metric exports shutdown coordination metrics in Prometheus format.
//
// Registry implements shutdown.Observer, so attaching it to a Coordinator
// with shutdown.WithObserver is enough to populate:
//
//   - exitguard_listeners: gauge of registered cleanup listeners
//   - exitguard_cleanup_runs_total: counter of runs by trigger
//   - exitguard_cleanup_in_progress: gauge, 1 while a run executes
//   - exitguard_listener_failures_total: counter by trigger and failure kind
//   - exitguard_cleanup_duration_seconds: histogram of run duration by trigger
//
// Handler serves the registry, plus Go runtime and process collectors, at
// /metrics.
package metric
