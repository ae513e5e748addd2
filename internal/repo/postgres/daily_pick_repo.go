package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
)

var ErrDailyPickNotFound = errors.New("daily pick not found")

type DailyPickRepo struct {
	pool *pgxpool.Pool
}

func NewDailyPickRepo(pool *pgxpool.Pool) *DailyPickRepo {
	return &DailyPickRepo{pool: pool}
}

func (r *DailyPickRepo) Get(ctx context.Context, seekerID int64, dayKey string) (model.DailyPick, error) {
	if seekerID <= 0 || dayKey == "" {
		return model.DailyPick{}, fmt.Errorf("invalid daily pick key")
	}
	if r.pool == nil {
		return model.DailyPick{}, fmt.Errorf("postgres pool is nil")
	}

	var pick model.DailyPick
	err := r.pool.QueryRow(ctx, `
SELECT seeker_user_id, day_key, candidate_user_id, created_at, viewed_at
FROM daily_picks
WHERE seeker_user_id = $1 AND day_key = $2
`, seekerID, dayKey).Scan(
		&pick.SeekerUserID,
		&pick.DayKey,
		&pick.CandidateUserID,
		&pick.CreatedAt,
		&pick.ViewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DailyPick{}, ErrDailyPickNotFound
		}
		return model.DailyPick{}, fmt.Errorf("get daily pick: %w", err)
	}

	return pick, nil
}

// Save upserts the pick for (seeker, day) and, in the same transaction,
// drops rows older than the retention window. Purging rides on writes, so
// stale rows linger only until the seeker's next pick is stored.
func (r *DailyPickRepo) Save(ctx context.Context, tx pgx.Tx, pick model.DailyPick, retention time.Duration) error {
	if pick.SeekerUserID <= 0 || pick.CandidateUserID <= 0 || pick.DayKey == "" {
		return fmt.Errorf("invalid daily pick payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	createdAt := pick.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO daily_picks (
	seeker_user_id,
	day_key,
	candidate_user_id,
	created_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (seeker_user_id, day_key) DO UPDATE SET
	candidate_user_id = EXCLUDED.candidate_user_id,
	created_at = EXCLUDED.created_at,
	viewed_at = NULL
`, pick.SeekerUserID, pick.DayKey, pick.CandidateUserID, createdAt.UTC()); err != nil {
		return fmt.Errorf("save daily pick: %w", err)
	}

	if retention > 0 {
		cutoff := createdAt.UTC().Add(-retention)
		if _, err := tx.Exec(ctx, `
DELETE FROM daily_picks
WHERE created_at < $1
`, cutoff); err != nil {
			return fmt.Errorf("purge stale daily picks: %w", err)
		}
	}

	return nil
}

func (r *DailyPickRepo) MarkViewed(ctx context.Context, seekerID int64, dayKey string, now time.Time) (bool, error) {
	if seekerID <= 0 || dayKey == "" {
		return false, fmt.Errorf("invalid daily pick key")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
UPDATE daily_picks
SET viewed_at = $3
WHERE seeker_user_id = $1 AND day_key = $2 AND viewed_at IS NULL
`, seekerID, dayKey, now.UTC())
	if err != nil {
		return false, fmt.Errorf("mark daily pick viewed: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
