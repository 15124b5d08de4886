package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/memberlist"
)

// DefaultLeaveTimeout bounds Leave when the context carries no deadline.
const DefaultLeaveTimeout = 5 * time.Second

// messageBuffer is the number of undelivered messages kept per node.
const messageBuffer = 16

// Config configures a Node.
type Config struct {
	NodeName string
	BindAddr string
	BindPort int // 0 picks a free port
	Join     []string
	Logger   *slog.Logger
}

// Node is this process's membership in the cluster.
type Node struct {
	list     *memberlist.Memberlist
	delegate *messageDelegate
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Join creates the local node and joins the given peers. With no peers the
// node starts a new cluster on its own.
func Join(cfg Config) (*Node, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mlConfig := memberlist.DefaultLANConfig()
	if cfg.NodeName != "" {
		mlConfig.Name = cfg.NodeName
	}
	mlConfig.BindAddr = cfg.BindAddr
	mlConfig.BindPort = cfg.BindPort
	mlConfig.AdvertisePort = cfg.BindPort
	mlConfig.LogOutput = &slogWriter{logger: cfg.Logger}

	d := newMessageDelegate(cfg.Logger)
	mlConfig.Delegate = d
	mlConfig.Events = &eventDelegate{logger: cfg.Logger}

	list, err := memberlist.Create(mlConfig)
	if err != nil {
		return nil, fmt.Errorf("create memberlist: %w", err)
	}

	n := &Node{list: list, delegate: d, logger: cfg.Logger}

	if len(cfg.Join) > 0 {
		joined, err := list.Join(cfg.Join)
		if err != nil {
			_ = list.Shutdown()
			d.close()
			return nil, fmt.Errorf("join %v: %w", cfg.Join, err)
		}
		cfg.Logger.Info("joined cluster",
			"node", mlConfig.Name,
			"peers", cfg.Join,
			"contacted", joined)
	} else {
		cfg.Logger.Info("started cluster", "node", mlConfig.Name, "addr", n.Addr())
	}
	return n, nil
}

// Messages delivers user messages sent to this node. It is closed by Leave.
func (n *Node) Messages() <-chan string {
	return n.delegate.msgs
}

// Addr returns the host:port peers use to join this node.
func (n *Node) Addr() string {
	local := n.list.LocalNode()
	return net.JoinHostPort(local.Addr.String(), strconv.Itoa(int(local.Port)))
}

// Members returns the names of all live members, including this node.
func (n *Node) Members() []string {
	var names []string
	for _, m := range n.list.Members() {
		names = append(names, m.Name)
	}
	return names
}

// Broadcast sends msg to every other member over the reliable (TCP) channel
// and returns how many members it reached. Delivery errors to individual
// members are joined into the returned error.
func (n *Node) Broadcast(msg string) (int, error) {
	local := n.list.LocalNode().Name
	sent := 0
	var errs []error
	for _, m := range n.list.Members() {
		if m.Name == local {
			continue
		}
		if err := n.list.SendReliable(m, []byte(msg)); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", m.Name, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// Leave announces departure, stops the node and closes Messages. It is
// safe to call more than once.
func (n *Node) Leave(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true

	timeout := DefaultLeaveTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	var errs []error
	if err := n.list.Leave(timeout); err != nil {
		errs = append(errs, fmt.Errorf("leave: %w", err))
	}
	if err := n.list.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("shutdown memberlist: %w", err))
	}
	n.delegate.close()

	if err := errors.Join(errs...); err != nil {
		n.logger.Error("failed to leave cluster", "error", err)
		return err
	}
	n.logger.Info("left cluster")
	return nil
}
