package shutdown

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLineMessages(t *testing.T) {
	ch := LineMessages(strings.NewReader("hello\n\n  shutdown  \nbye"))

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				want := []string{"hello", "shutdown", "bye"}
				if strings.Join(got, ",") != strings.Join(want, ",") {
					t.Errorf("messages = %v, want %v", got, want)
				}
				return
			}
			got = append(got, msg)
		case <-timeout:
			t.Fatal("channel was not closed at end of input")
		}
	}
}

func TestLineMessages_DrivesShutdown(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c, proc, _ := newTestCoordinator(t, WithMessages(LineMessages(r)))
	sigterm := mustOS(t, SIGTERM)

	c.Add(Func(func(ctx context.Context) error { return nil }))
	if _, err := io.WriteString(w, "status\nshutdown\n"); err != nil {
		t.Fatal(err)
	}
	if got := waitKill(t, proc); got != sigterm {
		t.Errorf("re-raised %v, want SIGTERM", got)
	}
}
