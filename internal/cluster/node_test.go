package cluster

import (
	"context"
	"slices"
	"testing"
	"time"
)

func startNode(t *testing.T, name string, join ...string) *Node {
	t.Helper()
	n, err := Join(Config{
		NodeName: name,
		BindAddr: "127.0.0.1",
		BindPort: 0,
		Join:     join,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("Join(%s) error = %v", name, err)
	}
	t.Cleanup(func() { n.Leave(context.Background()) })
	return n
}

func waitMembers(t *testing.T, n *Node, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for len(n.Members()) < want {
		if time.Now().After(deadline) {
			t.Fatalf("members = %v, want %d", n.Members(), want)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestNode_Single(t *testing.T) {
	n := startNode(t, "solo")

	if got := n.Members(); !slices.Equal(got, []string{"solo"}) {
		t.Errorf("Members() = %v, want [solo]", got)
	}
	sent, err := n.Broadcast("shutdown")
	if err != nil || sent != 0 {
		t.Errorf("Broadcast() = %d, %v; want 0, nil", sent, err)
	}
}

func TestNode_BroadcastReachesPeer(t *testing.T) {
	a := startNode(t, "node-a")
	b := startNode(t, "node-b", a.Addr())
	waitMembers(t, a, 2)

	sent, err := b.Broadcast("shutdown")
	if err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	if sent != 1 {
		t.Errorf("Broadcast() reached %d members, want 1", sent)
	}

	select {
	case msg := <-a.Messages():
		if msg != "shutdown" {
			t.Errorf("message = %q, want shutdown", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("peer did not receive the message")
	}

	select {
	case msg := <-b.Messages():
		t.Errorf("sender received its own message %q", msg)
	default:
	}
}

func TestNode_LeaveClosesMessages(t *testing.T) {
	n := startNode(t, "leaver")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := n.Leave(ctx); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}
	if err := n.Leave(ctx); err != nil {
		t.Errorf("second Leave() error = %v", err)
	}

	select {
	case _, ok := <-n.Messages():
		if ok {
			t.Error("Messages() should be closed")
		}
	case <-time.After(time.Second):
		t.Error("Messages() not closed after Leave")
	}
}

func TestJoin_UnreachablePeer(t *testing.T) {
	_, err := Join(Config{
		NodeName: "lonely",
		BindAddr: "127.0.0.1",
		Join:     []string{"127.0.0.1:1"},
		Logger:   quietLogger(),
	})
	if err == nil {
		t.Error("Join() expected error for unreachable peer")
	}
}
