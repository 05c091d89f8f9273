// Package trigger delivers snapshot requests from outside the request path.
//
// A Signal listens for one asynchronous signal (SIGUSR2 by default) and an
// Interval fires on a fixed period. Both call a Handler on their own
// goroutine and stop when the context passed to Run is done:
//
//	sig := trigger.NewSignal(syscall.SIGUSR2, func(r snapshotter.Reason) {
//	    s.Trigger(r, pc)
//	})
//	g.Go(func() error { return sig.Run(ctx) })
package trigger
