//go:build !unix

package shutdown

import "os"

// The os package only guarantees Interrupt and Kill everywhere. Console
// break events are delivered as os.Interrupt on Windows.
var osSignals = map[Signal]os.Signal{
	SIGINT:  os.Interrupt,
	SIGKILL: os.Kill,
}
