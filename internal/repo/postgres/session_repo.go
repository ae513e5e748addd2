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

var ErrSessionNotFound = errors.New("session not found")

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = "id, actor_user_id, started_at, ended_at, like_count, superlike_count, pass_count, match_count"

// GetOrCreateOpen returns the actor's open session, creating one when none
// exists. A partial unique index on (actor_user_id) WHERE ended_at IS NULL
// guarantees at most one open session per actor; a concurrent insert is
// recovered by re-reading.
func (r *SessionRepo) GetOrCreateOpen(ctx context.Context, tx pgx.Tx, actorUserID int64, now time.Time) (model.Session, error) {
	if actorUserID <= 0 {
		return model.Session{}, fmt.Errorf("invalid actor user id")
	}
	if tx == nil {
		return model.Session{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	session, err := r.getOpen(ctx, tx, actorUserID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return model.Session{}, err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO sessions (actor_user_id, started_at)
VALUES ($1, $2)
ON CONFLICT (actor_user_id) WHERE ended_at IS NULL DO NOTHING
`, actorUserID, now.UTC()); err != nil {
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}

	return r.getOpen(ctx, tx, actorUserID)
}

// ApplySwipe bumps the open session's counters for one recorded swipe.
// matched is only honoured for positive directions, which keeps the
// match counter bounded by the like counters.
func (r *SessionRepo) ApplySwipe(ctx context.Context, tx pgx.Tx, actorUserID int64, direction enums.SwipeDirection, matched bool, now time.Time) (model.Session, error) {
	if actorUserID <= 0 || !direction.Valid() {
		return model.Session{}, fmt.Errorf("invalid session update")
	}
	if tx == nil {
		return model.Session{}, fmt.Errorf("transaction is required")
	}

	if _, err := r.GetOrCreateOpen(ctx, tx, actorUserID, now); err != nil {
		return model.Session{}, err
	}

	likeDelta, superDelta, passDelta := 0, 0, 0
	switch direction {
	case enums.SwipeDirectionLike:
		likeDelta = 1
	case enums.SwipeDirectionSuperLike:
		superDelta = 1
	case enums.SwipeDirectionPass:
		passDelta = 1
	}

	matchDelta := 0
	if matched && direction.Positive() {
		matchDelta = 1
	}

	row := tx.QueryRow(ctx, `
UPDATE sessions
SET
	like_count = like_count + $2,
	superlike_count = superlike_count + $3,
	pass_count = pass_count + $4,
	match_count = match_count + $5
WHERE actor_user_id = $1 AND ended_at IS NULL
RETURNING `+sessionColumns+`
`, actorUserID, likeDelta, superDelta, passDelta, matchDelta)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("apply swipe to session: %w", err)
	}
	return session, nil
}

// ApplyMatch credits a match to the open session of an actor whose earlier
// positive swipe completed a pair (the non-initiating side).
func (r *SessionRepo) ApplyMatch(ctx context.Context, tx pgx.Tx, actorUserID int64, now time.Time) (model.Session, error) {
	if actorUserID <= 0 {
		return model.Session{}, fmt.Errorf("invalid actor user id")
	}
	if tx == nil {
		return model.Session{}, fmt.Errorf("transaction is required")
	}

	if _, err := r.GetOrCreateOpen(ctx, tx, actorUserID, now); err != nil {
		return model.Session{}, err
	}

	// match_count <= like_count + superlike_count stays intact: the credit
	// lands only when a like is there to carry it.
	row := tx.QueryRow(ctx, `
UPDATE sessions
SET match_count = match_count + 1
WHERE actor_user_id = $1 AND ended_at IS NULL
	AND match_count < like_count + superlike_count
RETURNING `+sessionColumns+`
`, actorUserID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.getOpen(ctx, tx, actorUserID)
		}
		return model.Session{}, fmt.Errorf("apply match to session: %w", err)
	}
	return session, nil
}

// RevertSwipe undoes the counter effect of a reversed swipe.
func (r *SessionRepo) RevertSwipe(ctx context.Context, tx pgx.Tx, actorUserID int64, direction enums.SwipeDirection, matched bool) error {
	if actorUserID <= 0 || !direction.Valid() {
		return fmt.Errorf("invalid session revert")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	likeDelta, superDelta, passDelta := 0, 0, 0
	switch direction {
	case enums.SwipeDirectionLike:
		likeDelta = 1
	case enums.SwipeDirectionSuperLike:
		superDelta = 1
	case enums.SwipeDirectionPass:
		passDelta = 1
	}
	matchDelta := 0
	if matched && direction.Positive() {
		matchDelta = 1
	}

	if _, err := tx.Exec(ctx, `
UPDATE sessions
SET
	like_count = GREATEST(like_count - $2, 0),
	superlike_count = GREATEST(superlike_count - $3, 0),
	pass_count = GREATEST(pass_count - $4, 0),
	match_count = GREATEST(match_count - $5, 0)
WHERE actor_user_id = $1 AND ended_at IS NULL
`, actorUserID, likeDelta, superDelta, passDelta, matchDelta); err != nil {
		return fmt.Errorf("revert swipe counters: %w", err)
	}
	return nil
}

// RevertMatchCredit takes back one match credit from the actor's open
// session. Used when undoing a match the actor did not initiate: their own
// swipe stays, only the ApplyMatch credit goes.
func (r *SessionRepo) RevertMatchCredit(ctx context.Context, tx pgx.Tx, actorUserID int64) error {
	if actorUserID <= 0 {
		return fmt.Errorf("invalid actor user id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE sessions
SET match_count = GREATEST(match_count - 1, 0)
WHERE actor_user_id = $1 AND ended_at IS NULL
`, actorUserID); err != nil {
		return fmt.Errorf("revert match credit: %w", err)
	}
	return nil
}

func (r *SessionRepo) Close(ctx context.Context, actorUserID int64, now time.Time) (bool, error) {
	if actorUserID <= 0 {
		return false, fmt.Errorf("invalid actor user id")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
UPDATE sessions
SET ended_at = $2
WHERE actor_user_id = $1 AND ended_at IS NULL
`, actorUserID, now.UTC())
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// CloseStaleOpen ends open sessions started before cutoff. Actors who walk
// away without closing get their window shut by the retention job instead.
func (r *SessionRepo) CloseStaleOpen(ctx context.Context, cutoff, now time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if cutoff.IsZero() {
		return 0, fmt.Errorf("cutoff is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
UPDATE sessions
SET ended_at = $2
WHERE ended_at IS NULL AND started_at < $1
`, cutoff.UTC(), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("close stale sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *SessionRepo) GetOpen(ctx context.Context, actorUserID int64) (model.Session, error) {
	if actorUserID <= 0 {
		return model.Session{}, fmt.Errorf("invalid actor user id")
	}
	if r.pool == nil {
		return model.Session{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+sessionColumns+`
FROM sessions
WHERE actor_user_id = $1 AND ended_at IS NULL
`, actorUserID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("get open session: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) getOpen(ctx context.Context, tx pgx.Tx, actorUserID int64) (model.Session, error) {
	row := tx.QueryRow(ctx, `
SELECT `+sessionColumns+`
FROM sessions
WHERE actor_user_id = $1 AND ended_at IS NULL
`, actorUserID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("get open session: %w", err)
	}
	return session, nil
}

func scanSession(row pgx.Row) (model.Session, error) {
	var session model.Session
	if err := row.Scan(
		&session.ID,
		&session.ActorUserID,
		&session.StartedAt,
		&session.EndedAt,
		&session.LikeCount,
		&session.SuperLikeCount,
		&session.PassCount,
		&session.MatchCount,
	); err != nil {
		return model.Session{}, err
	}
	return session, nil
}
