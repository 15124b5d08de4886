//go:build unix

package shutdown

import (
	"os"

	"golang.org/x/sys/unix"
)

// SIGBREAK has no unix counterpart and is left out.
var osSignals = map[Signal]os.Signal{
	SIGINT:  unix.SIGINT,
	SIGHUP:  unix.SIGHUP,
	SIGTERM: unix.SIGTERM,
	SIGUSR2: unix.SIGUSR2,
	SIGKILL: unix.SIGKILL,
	SIGQUIT: unix.SIGQUIT,
	SIGSTOP: unix.SIGSTOP,
}
