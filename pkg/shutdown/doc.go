// Package shutdown provides graceful process shutdown coordination.
//
// Independent parts of a program register cleanup listeners on a
// Coordinator. The first registration installs interception of every
// cooperative termination trigger:
//
//   - Idle exit: the body passed to Main returns
//   - Uncaught error: a panic escapes Main or a goroutine started with Go
//   - Termination signals: SIGINT, SIGHUP, SIGTERM, SIGBREAK, SIGUSR2
//   - Cluster shutdown message: "shutdown" received on the message source
//
// When a trigger fires, interception is removed, the registered listeners are
// detached and run concurrently exactly once, and only after all of them have
// settled is the terminal action performed (exit with a code, or re-raise the
// signal so the default disposition decides the exit status).
//
// Usage:
//
//	c := shutdown.New()
//	c.Add(shutdown.Func(func(ctx context.Context) error {
//		return db.Close()
//	}))
//	c.Main(func() error {
//		return serve()
//	})
package shutdown
