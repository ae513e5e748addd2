package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job closes open swipe sessions nobody bothered to end. Daily pick
// retention is not handled here; picks are purged lazily on write.
type Job struct {
	sessions staleSessionCloser
	staleAge time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

type staleSessionCloser interface {
	CloseStaleOpen(ctx context.Context, cutoff, now time.Time) (int64, error)
}

func NewStaleSessionJob(sessions staleSessionCloser, staleAge time.Duration, logger *zap.Logger) *Job {
	if staleAge <= 0 {
		staleAge = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		sessions: sessions,
		staleAge: staleAge,
		now:      time.Now,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.sessions == nil || j.staleAge <= 0 {
		return nil
	}

	now := j.now().UTC()
	rows, err := j.sessions.CloseStaleOpen(ctx, now.Add(-j.staleAge), now)
	if err != nil {
		return fmt.Errorf("cleanup stale sessions: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup stale sessions completed", zap.Int64("closed", rows))
	}

	return nil
}
