package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/exitguard/internal/cluster"
	"github.com/yndnr/exitguard/pkg/shutdown"
)

// BroadcastCommand returns the broadcast command, which asks every daemon
// in a cluster to shut down.
func BroadcastCommand() *cli.Command {
	return &cli.Command{
		Name:  "broadcast",
		Usage: "join a cluster briefly and send a message to every member",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "join",
				Aliases:  []string{"j"},
				Usage:    "address of a cluster member (host:port), repeatable",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "message to send",
				Value:   shutdown.ShutdownMessage,
			},
			&cli.StringFlag{
				Name:  "bind",
				Usage: "local address to gossip from",
				Value: "0.0.0.0",
			},
			&cli.DurationFlag{
				Name:  "settle",
				Usage: "time to wait for the member list to converge",
				Value: time.Second,
			},
		},
		Action: broadcast,
	}
}

func broadcast(c *cli.Context) error {
	msg := c.String("message")
	if msg == "" {
		return errors.New("message must not be empty")
	}

	node, err := cluster.Join(cluster.Config{
		NodeName: fmt.Sprintf("exitguard-broadcast-%d", time.Now().UnixNano()),
		BindAddr: c.String("bind"),
		BindPort: 0,
		Join:     c.StringSlice("join"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return err
	}
	defer node.Leave(c.Context)

	time.Sleep(c.Duration("settle"))

	sent, err := node.Broadcast(msg)
	fmt.Fprintf(c.App.Writer, "sent %q to %d member(s)\n", msg, sent)
	return err
}
