package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker and waits for all of them. The first worker to
// return cancels the others. The first non-nil error is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	for _, worker := range w.workers {
		g.Go(func() error {
			defer cancel()
			return worker.Run(runCtx)
		})
	}

	return g.Wait()
}
