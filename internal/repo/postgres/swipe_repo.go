package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
)

var ErrSwipeNotFound = errors.New("swipe not found")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Save persists one swipe per ordered (actor, target) pair. A duplicate is a
// no-op: the stored record wins and inserted comes back false.
func (r *SwipeRepo) Save(ctx context.Context, tx pgx.Tx, swipe model.Swipe) (bool, error) {
	if swipe.ActorUserID <= 0 || swipe.TargetUserID <= 0 || !swipe.Direction.Valid() {
		return false, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	createdAt := swipe.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := tx.Exec(ctx, `
INSERT INTO swipes (
	actor_user_id,
	target_user_id,
	direction,
	created_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (actor_user_id, target_user_id) DO NOTHING
`, swipe.ActorUserID, swipe.TargetUserID, string(swipe.Direction), createdAt.UTC())
	if err != nil {
		return false, fmt.Errorf("save swipe: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *SwipeRepo) Get(ctx context.Context, actorUserID, targetUserID int64) (model.Swipe, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return model.Swipe{}, fmt.Errorf("invalid swipe pair")
	}
	if r.pool == nil {
		return model.Swipe{}, fmt.Errorf("postgres pool is nil")
	}

	var swipe model.Swipe
	var direction string
	err := r.pool.QueryRow(ctx, `
SELECT actor_user_id, target_user_id, direction, created_at
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2
`, actorUserID, targetUserID).Scan(
		&swipe.ActorUserID,
		&swipe.TargetUserID,
		&direction,
		&swipe.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Swipe{}, ErrSwipeNotFound
		}
		return model.Swipe{}, fmt.Errorf("get swipe: %w", err)
	}

	swipe.Direction = enums.SwipeDirection(direction)
	return swipe, nil
}

// Exists reports whether the ordered pair already carries a swipe.
func (r *SwipeRepo) Exists(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid swipe pair")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2
LIMIT 1
`, actorUserID, targetUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check swipe exists: %w", err)
	}
	return true, nil
}

// MutualExists reports whether the reverse direction of the pair carries a
// positive swipe, the precondition for match creation.
func (r *SwipeRepo) MutualExists(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid swipe pair")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2 AND direction IN ($3, $4)
LIMIT 1
`, targetUserID, actorUserID, string(enums.SwipeDirectionLike), string(enums.SwipeDirectionSuperLike)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check mutual swipe: %w", err)
	}
	return true, nil
}

func (r *SwipeRepo) Delete(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) error {
	if actorUserID <= 0 || targetUserID <= 0 {
		return fmt.Errorf("invalid swipe pair")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2
`, actorUserID, targetUserID)
	if err != nil {
		return fmt.Errorf("delete swipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSwipeNotFound
	}
	return nil
}

// RelatedUserIDs returns every user the actor shares a swipe or match record
// with, in either direction. Discovery treats these as sticky exclusions.
func (r *SwipeRepo) RelatedUserIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_user_id FROM swipes WHERE actor_user_id = $1
UNION
SELECT actor_user_id FROM swipes WHERE target_user_id = $1
UNION
SELECT CASE WHEN user_a_id = $1 THEN user_b_id ELSE user_a_id END
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list related users: %w", err)
	}
	defer rows.Close()

	related := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan related user: %w", err)
		}
		related[id] = struct{}{}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate related users: %w", rows.Err())
	}

	return related, nil
}
