package workers

import (
	"context"
	"time"

	"github.com/docvault/docvault/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates the given workers. They are started in order by Run.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// CoordinatorWorker runs the sync coordinator's event loop in the
// background: the launch drain plus reactions to connectivity transitions.
type CoordinatorWorker struct {
	ctx         context.Context
	coordinator service.SyncCoordinator
}

func NewCoordinatorWorker(ctx context.Context, coordinator service.SyncCoordinator) *CoordinatorWorker {
	return &CoordinatorWorker{ctx: ctx, coordinator: coordinator}
}

func (w *CoordinatorWorker) Run() {
	go w.coordinator.Start(w.ctx)
}

// PeriodicSyncWorker starts the interval-driven queue drain as a safety net
// for changes whose triggers were missed.
type PeriodicSyncWorker struct {
	ctx      context.Context
	job      service.SyncJob
	interval time.Duration
}

func NewPeriodicSyncWorker(ctx context.Context, job service.SyncJob, interval time.Duration) *PeriodicSyncWorker {
	return &PeriodicSyncWorker{ctx: ctx, job: job, interval: interval}
}

func (w *PeriodicSyncWorker) Run() {
	w.job.Start(w.ctx, w.interval)
}
