package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-ads-sync/internal/config"
	"github.com/MKhiriev/go-ads-sync/internal/logger"
	"github.com/MKhiriev/go-ads-sync/internal/service"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(services *service.Services, cfg config.Workers, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newSyncWorker(services.SyncJob, cfg.SyncInterval, log),
		},
	}
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}

// syncWorker adapts the periodic sync job to the Worker interface.
type syncWorker struct {
	job      service.SyncJob
	interval time.Duration
	logger   *logger.Logger
}

func newSyncWorker(job service.SyncJob, interval time.Duration, log *logger.Logger) *syncWorker {
	return &syncWorker{job: job, interval: interval, logger: log}
}

func (w *syncWorker) Run(ctx context.Context) {
	w.logger.Info().
		Str("func", "syncWorker.Run").
		Dur("interval", w.interval).
		Msg("starting periodic sync")
	w.job.Start(ctx, w.interval)
}

func (w *syncWorker) Stop() {
	w.job.Stop()
}
