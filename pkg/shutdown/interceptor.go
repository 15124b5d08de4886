package shutdown

import (
	"os"
	"time"
)

// ShutdownMessage is the supervisor message that requests a graceful
// shutdown. It is treated like SIGTERM.
const ShutdownMessage = "shutdown"

// interceptor holds the subscriptions made for one active period of the
// registry.
type interceptor struct {
	sigs chan os.Signal
	msgs chan struct{}
	stop chan struct{}
}

// install subscribes to every trigger. Must be called with c.mu held.
func (c *Coordinator) install() {
	i := &interceptor{
		sigs: make(chan os.Signal, 1),
		msgs: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	c.proc.Notify(i.sigs, interceptedOS()...)
	c.icpt = i
	go c.watch(i)
}

// uninstall removes exactly the subscriptions made by install, restoring
// default handling. Must be called with c.mu held.
func (c *Coordinator) uninstall() {
	i := c.icpt
	if i == nil {
		return
	}
	c.icpt = nil
	c.proc.Stop(i.sigs)
	close(i.stop)
}

// watch waits for the first trigger delivered to i. The trigger is handled
// on its own goroutine so the wait never blocks on cleanup.
func (c *Coordinator) watch(i *interceptor) {
	select {
	case <-i.stop:
	case sig := <-i.sigs:
		go c.onSignal(signalFor(sig), TriggerSignal)
	case <-i.msgs:
		go c.onSignal(SIGTERM, TriggerMessage)
	}
}

// readMessages consumes the message source for the coordinator's lifetime.
// A shutdown message goes to the interceptor active when it arrives; while
// the registry is uninitialized or cleanup is running it is dropped, so it
// can never fire in a later active period.
func (c *Coordinator) readMessages(ch <-chan string) {
	for msg := range ch {
		if msg != ShutdownMessage {
			continue
		}
		c.mu.Lock()
		i := c.icpt
		if i != nil {
			select {
			case i.msgs <- struct{}{}:
			default:
			}
		}
		c.mu.Unlock()
		if i == nil {
			c.log.Info("shutdown message ignored, nothing to clean up")
		}
	}
}

// onSignal runs cleanup and then re-raises sig so that the signal's default
// disposition determines the exit status.
func (c *Coordinator) onSignal(sig Signal, t Trigger) {
	c.log.Info("termination trigger received, running cleanup",
		"trigger", string(t),
		"signal", string(sig))

	c.run(t, sig)
	c.reraise(sig)
}

// reraise sends sig to the own process. The Go runtime drops some signals
// once nobody is subscribed (SIGUSR2 among them), so if the process is still
// alive after the grace period it exits with the conventional 128+signo.
func (c *Coordinator) reraise(sig Signal) {
	osSig, err := sig.OS()
	if err != nil {
		c.log.Error("cannot re-raise signal", "signal", string(sig), "error", err)
		c.proc.Exit(1)
		return
	}

	code := signalExitCode(osSig)
	if err := c.proc.Kill(osSig); err != nil {
		c.log.Error("failed to re-raise signal", "signal", string(sig), "error", err)
		c.proc.Exit(code)
		return
	}

	if c.grace > 0 {
		time.Sleep(c.grace)
	}
	c.log.Info("process survived re-raised signal, exiting",
		"signal", string(sig),
		"exit_code", code)
	c.proc.Exit(code)
}
