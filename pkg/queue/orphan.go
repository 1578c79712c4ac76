package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// orphanState tracks orphan-sweep metrics (thread-safe).
type orphanState struct {
	mu            sync.Mutex
	lastSweep     time.Time
	jobsRecovered int
}

// runOrphanSweep periodically marks stale in_progress jobs as failed (and,
// per invariant I2, back to pending if retries remain). Every pod runs this
// independently; MarkStaleAsFailed is idempotent so concurrent sweeps are
// safe.
func (p *WorkerPool) runOrphanSweep(ctx context.Context) {
	ticker := time.NewTicker(p.config.OrphanSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.sweepOnce(ctx); err != nil {
				slog.Error("orphan sweep failed", "error", err)
			}
		}
	}
}

func (p *WorkerPool) sweepOnce(ctx context.Context) error {
	recovered, err := p.store.MarkStaleAsFailed(ctx, p.config.JobTimeout)
	if err != nil {
		return err
	}

	p.orphans.mu.Lock()
	p.orphans.lastSweep = time.Now()
	p.orphans.jobsRecovered += len(recovered)
	p.orphans.mu.Unlock()

	if len(recovered) > 0 {
		slog.Warn("recovered stale jobs", "count", len(recovered))
	}
	return nil
}
