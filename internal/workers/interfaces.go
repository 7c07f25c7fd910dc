// Package workers runs the long-lived parts of the client side by side and
// stops all of them as soon as one finishes.
package workers

import "context"

// Worker is a long-lived unit of the client. Run blocks until ctx is
// cancelled or the worker is done on its own.
//
// Example implementation:
//
//	type ticker struct{}
//
//	func (t *ticker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to a Worker.
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
