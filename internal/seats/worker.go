package seats

import (
	"context"
	"time"

	"ticketly/internal/shared/config"
	"ticketly/pkg/logger"
)

// ExpirationWorker periodically sweeps lapsed holds back to AVAILABLE and
// pushes expiring-soon warnings. It is the backstop that guarantees no
// seat stays parked behind a dead session.
type ExpirationWorker struct {
	service Service
	cfg     config.WorkerConfig
	log     *logger.Logger
}

func NewExpirationWorker(service Service, cfg config.WorkerConfig) *ExpirationWorker {
	return &ExpirationWorker{
		service: service,
		cfg:     cfg,
		log:     logger.GetDefault(),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. One sweep
// failing is logged and the loop keeps going; the next tick retries.
func (w *ExpirationWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.log.Info("hold expiration worker started",
		"interval", w.cfg.Interval.String(),
		"batch_size", w.cfg.BatchSize,
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("hold expiration worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one reclamation pass. Exposed so tests and admin tooling can
// trigger it without the ticker.
func (w *ExpirationWorker) Sweep(ctx context.Context) {
	if w.cfg.WarnEnabled {
		if _, err := w.service.WarnExpiringHolds(ctx, w.cfg.WarnBefore); err != nil {
			w.log.ErrorWithContext(ctx, "expiring-soon pass failed", err, nil)
		}
	}

	// Drain in batches so one sweep bounds its own work.
	for {
		holds, _, err := w.service.ReclaimExpiredHolds(ctx, w.cfg.BatchSize)
		if err != nil {
			w.log.ErrorWithContext(ctx, "hold reclamation pass failed", err, nil)
			return
		}
		if holds < w.cfg.BatchSize {
			return
		}
	}
}
