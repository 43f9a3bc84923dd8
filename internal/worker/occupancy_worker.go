package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
)

// OccupancySource lists open sessions and recomputes their seat counters.
type OccupancySource interface {
	ListUpcoming(ctx context.Context) ([]domain.Session, error)
	ReconcileOccupancy(ctx context.Context, sessionID string) (int, error)
}

// ReconcileOnce recomputes the counter of every upcoming session and returns
// how many of them had drifted from their enrollment count.
func ReconcileOnce(ctx context.Context, source OccupancySource, logger *zap.Logger) (int, error) {
	sessions, err := source.ListUpcoming(ctx)
	if err != nil {
		return 0, err
	}
	drifted := 0
	for _, session := range sessions {
		occupancy, err := source.ReconcileOccupancy(ctx, session.ID)
		if err != nil {
			logger.Warn("occupancy reconcile failed", zap.String("session_id", session.ID), zap.Error(err))
			continue
		}
		if occupancy != session.CurrentStudents {
			drifted++
			logger.Warn("occupancy drift corrected",
				zap.String("session_id", session.ID),
				zap.Int("stored", session.CurrentStudents),
				zap.Int("actual", occupancy))
		}
	}
	return drifted, nil
}

// StartOccupancyReconciler runs ReconcileOnce every interval until ctx is done.
func StartOccupancyReconciler(ctx context.Context, source OccupancySource, interval time.Duration, logger *zap.Logger) {
	if source == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := ReconcileOnce(ctx, source, logger); err != nil {
					logger.Warn("occupancy reconcile pass failed", zap.Error(err))
				}
			}
		}
	}()
}
