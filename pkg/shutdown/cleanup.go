package shutdown

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/exitguard/internal/telemetry/logger"
)

// Cleanup runs every registered listener once and waits for all of them,
// without performing any terminal action. It returns nil if nothing was
// registered. If a run is already in progress, Cleanup waits for it and
// returns its report; a listener must therefore not call Cleanup,
// ExitAfterCleanup or KillAfterCleanup on the coordinator running it.
func (c *Coordinator) Cleanup() *Report {
	return c.run(TriggerManual, "")
}

// run is the once-only cleanup protocol. Interception is removed and the
// listener set is detached under the lock before any listener runs, so a
// trigger fired by a listener, or by anyone else meanwhile, cannot start a
// second execution of the same set.
func (c *Coordinator) run(t Trigger, sig Signal) *Report {
	c.mu.Lock()
	if c.index == nil {
		r := c.running
		c.mu.Unlock()
		if r == nil {
			return nil
		}
		<-r.done
		return r.report
	}

	c.uninstall()
	listeners := c.listeners
	c.listeners, c.index = nil, nil
	c.notifyChanged(0)

	r := &run{done: make(chan struct{})}
	c.running = r
	c.mu.Unlock()

	r.report = c.execute(t, sig, listeners)

	c.mu.Lock()
	if c.running == r {
		c.running = nil
	}
	c.mu.Unlock()
	close(r.done)

	return r.report
}

// execute starts every listener in registration order and waits until all of
// them have settled. Failures are logged and collected, never returned.
func (c *Coordinator) execute(t Trigger, sig Signal, listeners []Listener) *Report {
	report := &Report{
		ID:        c.newID(),
		Trigger:   t,
		Signal:    sig,
		Started:   time.Now(),
		Listeners: len(listeners),
	}
	for _, o := range c.observers {
		o.CleanupStarted(report)
	}

	ctx, cancel := context.WithCancel(logger.WithRunID(context.Background(), report.ID))
	defer cancel()
	var expired <-chan struct{}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
		expired = ctx.Done()
	}

	// mu guards settled, finished and report.Failures. A listener is
	// settled exactly once, either by returning or by the timeout.
	var (
		mu       sync.Mutex
		settled  = make([]bool, len(listeners))
		finished bool
	)
	recordLocked := func(f Failure) {
		report.Failures = append(report.Failures, f)
		c.logFailure(report, f)
		for _, o := range c.observers {
			o.ListenerFailed(t, f)
		}
	}

	var g errgroup.Group
	for i, l := range listeners {
		g.Go(func() error {
			kind, err := invoke(ctx, l)
			mu.Lock()
			defer mu.Unlock()
			if finished || settled[i] {
				return nil
			}
			settled[i] = true
			if err != nil {
				recordLocked(Failure{Index: i, Kind: kind, Err: err})
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-expired:
	}

	mu.Lock()
	for i := range listeners {
		if !settled[i] {
			settled[i] = true
			recordLocked(Failure{Index: i, Kind: FailureTimeout, Err: ctx.Err()})
		}
	}
	finished = true
	slices.SortFunc(report.Failures, func(a, b Failure) int { return a.Index - b.Index })
	report.Duration = time.Since(report.Started)
	mu.Unlock()

	c.log.Info("cleanup finished",
		"run_id", report.ID,
		"trigger", string(t),
		"listeners", report.Listeners,
		"failures", len(report.Failures),
		"duration", report.Duration)

	for _, o := range c.observers {
		o.CleanupFinished(report)
	}
	return report
}

// invoke calls one listener, turning a panic into a failure.
func invoke(ctx context.Context, l Listener) (kind FailureKind, err error) {
	defer func() {
		if v := recover(); v != nil {
			kind, err = FailurePanic, fmt.Errorf("panic: %v", v)
		}
	}()
	if err := l.Cleanup(ctx); err != nil {
		return FailureError, err
	}
	return "", nil
}

func (c *Coordinator) logFailure(r *Report, f Failure) {
	msg := "error during cleanup"
	switch f.Kind {
	case FailurePanic:
		msg = "panic during cleanup"
	case FailureTimeout:
		msg = "cleanup listener timed out"
	}
	c.log.Error(msg,
		"run_id", r.ID,
		"listener", f.Index,
		"error", f.Err)
}
