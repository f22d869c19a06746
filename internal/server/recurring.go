package server

import (
	"context"
	"time"

	"pennyplan/internal/logger"
)

// RunRecurring materializes due recurring transactions now and then every
// interval until ctx is done.
func (a *App) RunRecurring(ctx context.Context, interval time.Duration) {
	log := logger.Get()
	log.Infof("Recurring runs every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.materializeDue(ctx, time.Now())

		select {
		case <-ctx.Done():
			log.Info("Recurring runs stopped")
			return
		case <-ticker.C:
		}
	}
}

func (a *App) materializeDue(ctx context.Context, now time.Time) {
	result, err := a.recurring.MaterializeAllDue(ctx, now)
	if err != nil {
		logger.Get().Errorw("recurring run failed", "error", err)
		return
	}
	if result.Created > 0 || result.Failed > 0 {
		logger.Get().Infow("recurring run finished",
			"created", result.Created,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
}
