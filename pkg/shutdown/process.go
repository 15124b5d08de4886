package shutdown

import (
	"os"
	"os/signal"
)

// Process is the host runtime the coordinator drives: signal subscription,
// process exit and signalling the own pid.
type Process interface {
	// Notify subscribes c to the given signals.
	Notify(c chan<- os.Signal, sig ...os.Signal)
	// Stop removes every subscription made for c.
	Stop(c chan<- os.Signal)
	// Exit terminates the process with code.
	Exit(code int)
	// Kill sends sig to the current process.
	Kill(sig os.Signal) error
}

// OSProcess returns the Process backed by os and os/signal.
func OSProcess() Process {
	return osProcess{}
}

type osProcess struct{}

func (osProcess) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (osProcess) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

func (osProcess) Exit(code int) {
	os.Exit(code)
}

func (osProcess) Kill(sig os.Signal) error {
	return kill(sig)
}
