package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sf1tzp/symbology/pkg/config"
)

// WorkerPool manages a fixed-size pool of queue workers plus the background
// stale-job sweep. Workers do not share in-process state; all coordination
// goes through the store.
type WorkerPool struct {
	podID    string
	store    *Store
	config   *config.QueueConfig
	registry Registry
	workers  []*Worker
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	started bool
	orphans orphanState
}

// NewWorkerPool creates a new worker pool. podID should be unique per
// process instance (e.g. host+pid+nonce) and is used to derive each
// worker's id.
func NewWorkerPool(podID string, store *Store, cfg *config.QueueConfig, registry Registry) *WorkerPool {
	return &WorkerPool{
		podID:    podID,
		store:    store,
		config:   cfg,
		registry: registry,
		workers:  make([]*Worker, 0, cfg.WorkerCount),
		stopCh:   make(chan struct{}),
	}
}

// Start spawns the worker goroutines and the orphan-sweep background task.
// Safe to call multiple times; subsequent calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) {
	if p.started {
		slog.Warn("worker pool already started, ignoring duplicate Start call", "pod_id", p.podID)
		return
	}
	p.started = true

	slog.Info("starting worker pool", "pod_id", p.podID, "worker_count", p.config.WorkerCount)

	for i := 0; i < p.config.WorkerCount; i++ {
		workerID := fmt.Sprintf("%s-worker-%d", p.podID, i)
		worker := NewWorker(workerID, p.store, p.config, p.registry)
		p.workers = append(p.workers, worker)
		worker.Start(ctx)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runOrphanSweep(ctx)
	}()

	slog.Info("worker pool started")
}

// Stop signals all workers to finish their current job and stop, then
// waits up to GracefulShutdownTimeout for them and the orphan sweep to exit.
func (p *WorkerPool) Stop() {
	slog.Info("stopping worker pool gracefully")

	done := make(chan struct{})
	go func() {
		for _, worker := range p.workers {
			worker.Stop()
		}
		p.stopOnce.Do(func() { close(p.stopCh) })
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker pool stopped gracefully")
	case <-time.After(p.config.GracefulShutdownTimeout):
		slog.Warn("worker pool stop timed out waiting for in-flight jobs", "timeout", p.config.GracefulShutdownTimeout)
	}
}

// Health returns the current health snapshot of the pool.
func (p *WorkerPool) Health() *PoolHealth {
	workerStats := make([]WorkerHealth, len(p.workers))
	activeWorkers := 0
	for i, worker := range p.workers {
		stats := worker.Health()
		workerStats[i] = stats
		if stats.Status == string(WorkerStatusWorking) {
			activeWorkers++
		}
	}

	return &PoolHealth{
		PodID:         p.podID,
		TotalWorkers:  len(p.workers),
		ActiveWorkers: activeWorkers,
		WorkerStats:   workerStats,
	}
}
