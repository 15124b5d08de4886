// Package journal persists shutdown reports in a Badger database.
//
// A Journal is a shutdown.Observer: it records a run as soon as cleanup
// starts and overwrites the record with the final report once every
// listener has settled. A run that never finishes, because the process was
// killed mid-cleanup, therefore stays visible as unfinished.
//
// Records are keyed by run ID. Run IDs are ULIDs, so key order is start
// order and List can return the newest runs with a reverse scan.
package journal
