package shutdown

import "context"

// Listener is a unit of cleanup work run once when the process terminates.
//
// Listeners are identified by value: registering the same listener twice has
// no additional effect, and Remove matches on identity. Add ignores a
// listener whose value is not comparable; pointer receivers are the usual
// choice.
//
// A returned error or a panic is logged and never stops other listeners.
type Listener interface {
	Cleanup(ctx context.Context) error
}

// funcListener gives a plain function a pointer identity.
type funcListener struct {
	fn func(ctx context.Context) error
}

func (f *funcListener) Cleanup(ctx context.Context) error {
	return f.fn(ctx)
}

// Func wraps fn into a Listener. Every call returns a distinct listener, so
// keep the result around if it needs to be removed later.
func Func(fn func(ctx context.Context) error) Listener {
	return &funcListener{fn: fn}
}

// Closer adapts an io.Closer style close function, such as db.Close, into a
// Listener.
func Closer(fn func() error) Listener {
	return Func(func(context.Context) error {
		return fn()
	})
}
