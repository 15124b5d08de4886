package shutdown

import (
	"fmt"
	"runtime/debug"
)

// ExitAfterCleanup runs cleanup and then exits the process with code.
// With the OS process it does not return.
func (c *Coordinator) ExitAfterCleanup(code int) {
	c.run(TriggerExit, "")
	c.proc.Exit(code)
}

// KillAfterCleanup runs cleanup and then sends sig to the current process.
// Signals that are unknown or missing on this platform are rejected before
// any cleanup runs.
func (c *Coordinator) KillAfterCleanup(sig Signal) error {
	osSig, err := sig.OS()
	if err != nil {
		return err
	}
	c.run(TriggerKill, sig)
	if err := c.proc.Kill(osSig); err != nil {
		return fmt.Errorf("kill %s: %w", sig, err)
	}
	return nil
}

// Main runs body as the program's main work. When body returns, the program
// is treated as idle: cleanup runs and the process exits with ExitCode, read
// after cleanup so listeners may still change it. A non-nil error from body
// sets the exit code to 1 first. A panic in body is an uncaught error.
func (c *Coordinator) Main(body func() error) {
	defer c.Recover()

	if err := body(); err != nil {
		c.log.Error("program failed", "error", err)
		c.SetExitCode(1)
	}
	if c.Active() {
		c.log.Info("program finished, running cleanup", "exit_code", c.ExitCode())
	}
	c.run(TriggerIdle, "")
	c.proc.Exit(c.ExitCode())
}

// Go runs fn on a new goroutine guarded by Recover.
func (c *Coordinator) Go(fn func()) {
	go func() {
		defer c.Recover()
		fn()
	}()
}

// Recover handles a panic as an uncaught error. It must be deferred directly:
//
//	defer c.Recover()
//
// While listeners are registered, the panic is logged, cleanup runs and the
// process exits with code 1. Otherwise the panic continues unchanged.
func (c *Coordinator) Recover() {
	v := recover()
	if v == nil {
		return
	}
	if !c.Active() {
		panic(v)
	}

	c.log.Error("uncaught panic, running cleanup",
		"panic", fmt.Sprint(v),
		"stack", string(debug.Stack()))
	c.run(TriggerPanic, "")
	c.proc.Exit(1)
}
