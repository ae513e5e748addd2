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
	"github.com/TomShtern/Date-Program-sub005/internal/domain/rules"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

const matchColumns = "pair_id, user_a_id, user_b_id, state, created_at, ended_at, ended_by"

// SaveOrGet creates an active match for the pair or, when the unique pair
// constraint fires because a concurrent caller got there first, re-reads and
// returns the existing row. Conflict is recovery here, never an error.
func (r *MatchRepo) SaveOrGet(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return model.Match{}, false, fmt.Errorf("invalid match pair")
	}
	if tx == nil {
		return model.Match{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userA, userB := rules.NormalizePair(userID, targetID)
	pairID := rules.PairID(userID, targetID)

	row := tx.QueryRow(ctx, `
INSERT INTO matches (
	pair_id,
	user_a_id,
	user_b_id,
	state,
	created_at
) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (pair_id) DO NOTHING
RETURNING `+matchColumns+`
`, pairID, userA, userB, string(enums.MatchStateActive), now.UTC())

	match, err := scanMatch(row)
	if err == nil {
		return match, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Match{}, false, fmt.Errorf("create match: %w", err)
	}

	existing, err := r.getByPairID(ctx, tx, pairID)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("reread match after conflict: %w", err)
	}
	return existing, false, nil
}

func (r *MatchRepo) GetByPair(ctx context.Context, userID, targetID int64) (model.Match, error) {
	if userID <= 0 || targetID <= 0 {
		return model.Match{}, fmt.Errorf("invalid match pair")
	}
	if r.pool == nil {
		return model.Match{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches
WHERE pair_id = $1
`, rules.PairID(userID, targetID))

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match by pair: %w", err)
	}
	return match, nil
}

func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID int64, limit int) ([]model.Match, error) {
	return r.listForUser(ctx, userID, limit, true)
}

func (r *MatchRepo) ListAllForUser(ctx context.Context, userID int64, limit int) ([]model.Match, error) {
	return r.listForUser(ctx, userID, limit, false)
}

func (r *MatchRepo) listForUser(ctx context.Context, userID int64, limit int, activeOnly bool) ([]model.Match, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `
SELECT ` + matchColumns + `
FROM matches
WHERE (user_a_id = $1 OR user_b_id = $1)
`
	if activeOnly {
		query += `AND state = '` + string(enums.MatchStateActive) + `'
`
	}
	query += `ORDER BY created_at DESC, pair_id DESC
LIMIT $2
`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]model.Match, 0, limit)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, match)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

// UpdateState moves an active match into a terminal state, recording when
// and by whom it ended. A match no longer active is left untouched and the
// call reports false.
func (r *MatchRepo) UpdateState(ctx context.Context, tx pgx.Tx, pairID string, state enums.MatchState, endedBy int64, now time.Time) (bool, error) {
	if pairID == "" || !state.Terminal() || endedBy <= 0 {
		return false, fmt.Errorf("invalid match state update")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := tx.Exec(ctx, `
UPDATE matches
SET state = $2, ended_at = $3, ended_by = $4
WHERE pair_id = $1 AND state = $5
`, pairID, string(state), now.UTC(), endedBy, string(enums.MatchStateActive))
	if err != nil {
		return false, fmt.Errorf("update match state: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteByPair removes the match row entirely. Only the undo cascade uses
// this; lifecycle endings go through UpdateState.
func (r *MatchRepo) DeleteByPair(ctx context.Context, tx pgx.Tx, pairID string) (bool, error) {
	if pairID == "" {
		return false, fmt.Errorf("invalid pair id")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM matches
WHERE pair_id = $1
`, pairID)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *MatchRepo) getByPairID(ctx context.Context, tx pgx.Tx, pairID string) (model.Match, error) {
	row := tx.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches
WHERE pair_id = $1
`, pairID)

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, err
	}
	return match, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var match model.Match
	var state string
	if err := row.Scan(
		&match.PairID,
		&match.UserAID,
		&match.UserBID,
		&state,
		&match.CreatedAt,
		&match.EndedAt,
		&match.EndedBy,
	); err != nil {
		return model.Match{}, err
	}
	match.State = enums.MatchState(state)
	return match, nil
}
