package shutdown

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

// fakeProcess records exits and signals instead of acting on them.
type fakeProcess struct {
	mu     sync.Mutex
	subs   map[chan<- os.Signal][]os.Signal
	stops  int
	exits  []int
	kills  []os.Signal
	exited chan int
	killed chan os.Signal
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{
		subs:   make(map[chan<- os.Signal][]os.Signal),
		exited: make(chan int, 16),
		killed: make(chan os.Signal, 16),
	}
}

func (p *fakeProcess) Notify(c chan<- os.Signal, sig ...os.Signal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs[c] = append(p.subs[c], sig...)
}

func (p *fakeProcess) Stop(c chan<- os.Signal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subs, c)
	p.stops++
}

func (p *fakeProcess) Exit(code int) {
	p.mu.Lock()
	p.exits = append(p.exits, code)
	p.mu.Unlock()
	p.exited <- code
}

func (p *fakeProcess) Kill(sig os.Signal) error {
	p.mu.Lock()
	p.kills = append(p.kills, sig)
	p.mu.Unlock()
	p.killed <- sig
	return nil
}

// raise delivers sig to every subscribed channel without blocking, the way
// os/signal does. It reports whether anyone was subscribed.
func (p *fakeProcess) raise(sig os.Signal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	delivered := false
	for c, sigs := range p.subs {
		for _, s := range sigs {
			if s == sig {
				delivered = true
				select {
				case c <- sig:
				default:
				}
			}
		}
	}
	return delivered
}

func (p *fakeProcess) subscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

func (p *fakeProcess) stopCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stops
}

// recordingLogger keeps every logged message.
type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) errorCount(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.errors {
		if m == msg {
			n++
		}
	}
	return n
}

func (l *recordingLogger) infoCount(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.infos {
		if m == msg {
			n++
		}
	}
	return n
}

// waitInfo blocks until msg has been logged at info level n times.
func waitInfo(t *testing.T, l *recordingLogger, msg string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.infoCount(msg) < n {
		if time.Now().After(deadline) {
			t.Fatalf("%q logged %d times, want %d", msg, l.infoCount(msg), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestCoordinator(t *testing.T, opts ...Option) (*Coordinator, *fakeProcess, *recordingLogger) {
	t.Helper()
	proc := newFakeProcess()
	log := &recordingLogger{}
	base := []Option{
		WithProcess(proc),
		WithLogger(log),
		WithReraiseGrace(time.Millisecond),
	}
	return New(append(base, opts...)...), proc, log
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitExit(t *testing.T, p *fakeProcess) int {
	t.Helper()
	select {
	case code := <-p.exited:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("process did not exit in time")
		return -1
	}
}

func waitKill(t *testing.T, p *fakeProcess) os.Signal {
	t.Helper()
	select {
	case sig := <-p.killed:
		return sig
	case <-time.After(2 * time.Second):
		t.Fatal("process was not signalled in time")
		return nil
	}
}
