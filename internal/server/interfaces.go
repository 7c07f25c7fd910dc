package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
type Server interface {
	// RunServer serves requests until ctx is cancelled or the server fails.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server within ctx.
	Shutdown(ctx context.Context) error
}
