package shutdown

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Signal errors.
var (
	ErrUnknownSignal     = errors.New("shutdown: unknown signal")
	ErrUnsupportedSignal = errors.New("shutdown: signal not supported on this platform")
)

// Signal names a signal accepted by KillAfterCleanup.
type Signal string

// Interceptable signals. Cleanup runs before the process acts on them.
const (
	SIGINT   Signal = "SIGINT"
	SIGHUP   Signal = "SIGHUP"
	SIGTERM  Signal = "SIGTERM"
	SIGBREAK Signal = "SIGBREAK"
	SIGUSR2  Signal = "SIGUSR2"
)

// Terminal-only signals. They can be sent after cleanup but are never
// intercepted: the process dies before any handler could run.
const (
	SIGKILL Signal = "SIGKILL"
	SIGQUIT Signal = "SIGQUIT"
	SIGSTOP Signal = "SIGSTOP"
)

var interceptable = []Signal{SIGINT, SIGHUP, SIGTERM, SIGBREAK, SIGUSR2}

var knownSignals = map[Signal]bool{
	SIGINT: true, SIGHUP: true, SIGTERM: true, SIGBREAK: true, SIGUSR2: true,
	SIGKILL: false, SIGQUIT: false, SIGSTOP: false,
}

// ParseSignal parses a signal name. The "SIG" prefix is optional and case is
// ignored, so "term", "SIGTERM" and "sigterm" are equivalent.
func ParseSignal(name string) (Signal, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(s, "SIG") {
		s = "SIG" + s
	}
	if _, ok := knownSignals[Signal(s)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSignal, name)
	}
	return Signal(s), nil
}

// Interceptable reports whether the signal is one the coordinator subscribes to.
func (s Signal) Interceptable() bool {
	return knownSignals[s]
}

// Supported reports whether the signal exists on the current platform.
func (s Signal) Supported() bool {
	_, ok := osSignals[s]
	return ok
}

func (s Signal) String() string {
	return string(s)
}

// OS returns the platform signal value.
func (s Signal) OS() (os.Signal, error) {
	if _, ok := knownSignals[s]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, string(s))
	}
	sig, ok := osSignals[s]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSignal, s)
	}
	return sig, nil
}

// signalFor maps a delivered os.Signal back to its name.
func signalFor(sig os.Signal) Signal {
	for name, v := range osSignals {
		if v == sig {
			return name
		}
	}
	return Signal(sig.String())
}

// interceptedOS returns the interceptable signals available on this platform.
func interceptedOS() []os.Signal {
	sigs := make([]os.Signal, 0, len(interceptable))
	for _, s := range interceptable {
		if v, ok := osSignals[s]; ok {
			sigs = append(sigs, v)
		}
	}
	return sigs
}

// signalExitCode is the conventional status of a process killed by sig.
func signalExitCode(sig os.Signal) int {
	if n, ok := sig.(syscall.Signal); ok {
		return 128 + int(n)
	}
	return 1
}
