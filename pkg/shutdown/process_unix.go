//go:build unix

package shutdown

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func kill(sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return ErrUnsupportedSignal
	}
	return unix.Kill(unix.Getpid(), s)
}
