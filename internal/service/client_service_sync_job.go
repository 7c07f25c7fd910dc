package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

const defaultRetryInterval = time.Minute

type clientSyncJob struct {
	syncService ClientSyncService
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.RetryPending
// on a ticker. The job is idle until Start is called.
func NewClientSyncJob(syncService ClientSyncService, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{syncService: syncService, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that calls RetryPending every interval.
// The goroutine exits when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.syncService.RetryPending(jobCtx); err != nil {
					j.logger.Err(err).Str("func", "*clientSyncJob.Start").Msg("pending upload retry failed")
				}
			}
		}
	}()
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context
// and blocks until the goroutine has exited. A no-op when not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
