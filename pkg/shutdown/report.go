package shutdown

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Trigger identifies what started a cleanup run.
type Trigger string

// Triggers.
const (
	TriggerIdle    Trigger = "idle"
	TriggerPanic   Trigger = "panic"
	TriggerSignal  Trigger = "signal"
	TriggerMessage Trigger = "message"
	TriggerExit    Trigger = "exit"
	TriggerKill    Trigger = "kill"
	TriggerManual  Trigger = "manual"
)

// FailureKind classifies a listener failure.
type FailureKind string

// Failure kinds.
const (
	FailurePanic   FailureKind = "panic"
	FailureError   FailureKind = "error"
	FailureTimeout FailureKind = "timeout"
)

// Failure records one listener that did not complete cleanly.
type Failure struct {
	// Index is the listener's position in registration order.
	Index int
	Kind  FailureKind
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("listener %d: %s: %v", f.Index, f.Kind, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report describes a finished cleanup run.
type Report struct {
	ID        string
	Trigger   Trigger
	Signal    Signal
	Started   time.Time
	Duration  time.Duration
	Listeners int
	Failures  []Failure
}

// Err returns the listener failures as a single error, or nil.
// Failures never fail the run itself; this is for callers that want to
// report them.
func (r *Report) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, f)
	}
	return merr.ErrorOrNil()
}

// Observer receives lifecycle notifications from a Coordinator.
//
// ListenersChanged is called with the registry locked and must not call back
// into the Coordinator. ListenerFailed may be called from several goroutines
// at once.
type Observer interface {
	ListenersChanged(n int)
	CleanupStarted(r *Report)
	ListenerFailed(t Trigger, f Failure)
	CleanupFinished(r *Report)
}
