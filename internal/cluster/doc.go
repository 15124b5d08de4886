// Package cluster carries shutdown requests between exitguard nodes over
// memberlist gossip.
//
// Every node joins the same memberlist cluster. A user message sent to a
// node is delivered on its Messages channel, which the daemon passes to the
// shutdown coordinator as its supervisor message source. Broadcasting
// shutdown.ShutdownMessage therefore asks every other node to shut down
// as if it had received SIGTERM.
package cluster
