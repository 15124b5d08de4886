package cluster

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/hashicorp/memberlist"
)

// messageDelegate turns memberlist user messages into strings on msgs.
type messageDelegate struct {
	logger *slog.Logger

	mu     sync.Mutex
	msgs   chan string
	closed bool
}

func newMessageDelegate(logger *slog.Logger) *messageDelegate {
	return &messageDelegate{
		logger: logger,
		msgs:   make(chan string, messageBuffer),
	}
}

// NotifyMsg must not block, so a full buffer drops the message.
func (d *messageDelegate) NotifyMsg(b []byte) {
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.msgs <- msg:
		d.logger.Debug("cluster message received", "message", msg)
	default:
		d.logger.Warn("cluster message dropped, buffer full", "message", msg)
	}
}

func (d *messageDelegate) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.msgs)
	}
}

func (d *messageDelegate) NodeMeta(limit int) []byte { return nil }

func (d *messageDelegate) GetBroadcasts(overhead, limit int) [][]byte { return nil }

func (d *messageDelegate) LocalState(join bool) []byte { return nil }

func (d *messageDelegate) MergeRemoteState(buf []byte, join bool) {}

type eventDelegate struct {
	logger *slog.Logger
}

func (e *eventDelegate) NotifyJoin(node *memberlist.Node) {
	e.logger.Info("node joined", "node", node.Name, "addr", node.Address())
}

func (e *eventDelegate) NotifyLeave(node *memberlist.Node) {
	e.logger.Info("node left", "node", node.Name, "addr", node.Address())
}

func (e *eventDelegate) NotifyUpdate(node *memberlist.Node) {
	e.logger.Debug("node updated", "node", node.Name)
}

// slogWriter routes memberlist's log output to slog at debug level.
type slogWriter struct {
	logger *slog.Logger
}

func (w *slogWriter) Write(p []byte) (int, error) {
	w.logger.Debug(strings.TrimRight(string(p), "\n"), "component", "memberlist")
	return len(p), nil
}
