package shutdown

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/exitguard/internal/telemetry/logger"
)

// DefaultReraiseGrace is how long a re-raised signal gets to terminate the
// process before the coordinator exits with 128+signo itself.
const DefaultReraiseGrace = 2 * time.Second

// Logger is the diagnostic sink used by the coordinator.
// Both *slog.Logger and logger.Logger satisfy it.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Coordinator owns the cleanup listener registry and the interception of
// termination triggers for one process.
//
// The registry is either uninitialized (no listeners, nothing intercepted)
// or active (at least one listener, every trigger intercepted). Interception
// is installed with the first listener and removed with the last one, or
// when cleanup starts.
type Coordinator struct {
	mu        sync.Mutex
	listeners []Listener
	index     map[Listener]struct{} // nil while uninitialized
	icpt      *interceptor          // non-nil iff index != nil
	running   *run

	exitCode atomic.Int32

	proc      Process
	log       Logger
	observers []Observer
	messages  <-chan string
	timeout   time.Duration
	grace     time.Duration
	newID     func() string
}

// run is one in-flight cleanup execution. report is written before done is
// closed.
type run struct {
	done   chan struct{}
	report *Report
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the diagnostic logger.
func WithLogger(l Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// WithProcess replaces the host process. Tests use it to observe exits and
// signals without terminating.
func WithProcess(p Process) Option {
	return func(c *Coordinator) {
		c.proc = p
	}
}

// WithObserver adds an observer. It may be given several times.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		c.observers = append(c.observers, o)
	}
}

// WithMessages sets the supervisor message source. A message equal to
// ShutdownMessage is handled like SIGTERM while listeners are registered
// and discarded otherwise. The coordinator reads ch until it is closed.
func WithMessages(ch <-chan string) Option {
	return func(c *Coordinator) {
		c.messages = ch
	}
}

// WithTimeout bounds how long cleanup waits for listeners. Zero, the
// default, waits until every listener has returned.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithReraiseGrace sets how long a re-raised signal may take to terminate
// the process before falling back to an explicit exit.
func WithReraiseGrace(d time.Duration) Option {
	return func(c *Coordinator) {
		c.grace = d
	}
}

// New creates a Coordinator in the uninitialized state.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		proc:  OSProcess(),
		log:   logger.Default(),
		grace: DefaultReraiseGrace,
		newID: func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.messages != nil {
		go c.readMessages(c.messages)
	}
	return c
}

// Add registers l and returns a function that removes it again.
// Adding a listener that is already registered has no effect. A nil or
// non-comparable listener cannot be identified, so it is not registered and
// the returned function reports false.
func (c *Coordinator) Add(l Listener) func() bool {
	if !identifiable(l) {
		if l != nil {
			c.log.Error("cleanup listener ignored, not comparable", "type", fmt.Sprintf("%T", l))
		}
		return func() bool { return false }
	}
	remove := func() bool { return c.Remove(l) }

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[l]; ok {
		return remove
	}
	if c.index == nil {
		c.index = make(map[Listener]struct{})
		c.install()
	}
	c.index[l] = struct{}{}
	c.listeners = append(c.listeners, l)
	c.notifyChanged(len(c.listeners))
	return remove
}

// Remove unregisters l and reports whether it was registered. Removing the
// last listener stops trigger interception.
func (c *Coordinator) Remove(l Listener) bool {
	if !identifiable(l) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[l]; !ok {
		return false
	}
	delete(c.index, l)
	c.listeners = slices.DeleteFunc(c.listeners, func(x Listener) bool { return x == l })
	if len(c.listeners) == 0 {
		c.listeners, c.index = nil, nil
		c.uninstall()
	}
	c.notifyChanged(len(c.listeners))
	return true
}

// identifiable reports whether l can be used as a registry key. The check is
// on the dynamic value, so a struct holding an interface field is rejected
// when that field holds something non-comparable.
func identifiable(l Listener) bool {
	return l != nil && reflect.ValueOf(l).Comparable()
}

// Len returns the number of registered listeners.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// Active reports whether termination triggers are currently intercepted.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.icpt != nil
}

// SetExitCode sets the code used when the program body finishes normally.
func (c *Coordinator) SetExitCode(code int) {
	c.exitCode.Store(int32(code))
}

// ExitCode returns the idle exit code.
func (c *Coordinator) ExitCode() int {
	return int(c.exitCode.Load())
}

// notifyChanged must be called with c.mu held.
func (c *Coordinator) notifyChanged(n int) {
	for _, o := range c.observers {
		o.ListenersChanged(n)
	}
}
