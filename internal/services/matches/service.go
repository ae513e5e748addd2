package matches

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
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
)

const defaultListLimit = 100

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("match not found")
	ErrAlreadyEnded = errors.New("match already ended")
	ErrInvalidState = errors.New("invalid match state")
)

type MatchStore interface {
	GetByPair(ctx context.Context, userID, targetID int64) (model.Match, error)
	ListActiveForUser(ctx context.Context, userID int64, limit int) ([]model.Match, error)
	ListAllForUser(ctx context.Context, userID int64, limit int) ([]model.Match, error)
	UpdateState(ctx context.Context, tx pgx.Tx, pairID string, state enums.MatchState, endedBy int64, now time.Time) (bool, error)
}

type BlockStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, reason string) error
}

type Service struct {
	pool       *pgxpool.Pool
	matchStore MatchStore
	blockStore BlockStore
	now        func() time.Time
	runTx      func(context.Context, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	MatchStore MatchStore
	BlockStore BlockStore
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		pool:       deps.Pool,
		matchStore: deps.MatchStore,
		blockStore: deps.BlockStore,
		now:        time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

func (s *Service) ListActive(ctx context.Context, userID int64, limit int) ([]model.Match, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.matchStore.ListActiveForUser(ctx, userID, limit)
}

func (s *Service) ListAll(ctx context.Context, userID int64, limit int) ([]model.Match, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.matchStore.ListAllForUser(ctx, userID, limit)
}

// GetByPair returns the match between userID and otherID. The caller must be
// one of the participants, which holds by construction of the lookup.
func (s *Service) GetByPair(ctx context.Context, userID, otherID int64) (model.Match, error) {
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return model.Match{}, ErrValidation
	}

	match, err := s.matchStore.GetByPair(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Match{}, ErrNotFound
		}
		return model.Match{}, err
	}
	return match, nil
}

// End moves the actor's match with otherID into the given terminal state.
// ACTIVE is the only state a match can leave; ending an already ended match
// is rejected, whatever the requested state.
func (s *Service) End(ctx context.Context, actorUserID, otherID int64, state enums.MatchState) (model.Match, error) {
	if actorUserID <= 0 || otherID <= 0 || actorUserID == otherID {
		return model.Match{}, ErrValidation
	}
	if !state.Terminal() {
		return model.Match{}, ErrInvalidState
	}
	if s.runTx == nil || s.matchStore == nil {
		return model.Match{}, fmt.Errorf("match dependencies are not configured")
	}

	match, err := s.GetByPair(ctx, actorUserID, otherID)
	if err != nil {
		return model.Match{}, err
	}
	if match.Other(actorUserID) != otherID {
		return model.Match{}, ErrNotFound
	}
	if !match.State.CanTransition(state) {
		return model.Match{}, ErrAlreadyEnded
	}

	now := s.now().UTC()
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		updated, err := s.matchStore.UpdateState(txCtx, tx, match.PairID, state, actorUserID, now)
		if err != nil {
			return err
		}
		if !updated {
			// Lost the race against another ending.
			return ErrAlreadyEnded
		}
		return nil
	}); err != nil {
		return model.Match{}, err
	}

	match.State = state
	match.EndedAt = &now
	match.EndedBy = &actorUserID
	return match, nil
}

// Block records the block and, when an active match exists, ends it as
// BLOCKED in the same transaction. Blocking without a match is valid; the
// block still feeds discovery's exclusion stage.
func (s *Service) Block(ctx context.Context, actorUserID, targetUserID int64, reason string) error {
	if actorUserID <= 0 || targetUserID <= 0 || actorUserID == targetUserID {
		return ErrValidation
	}
	if s.runTx == nil || s.matchStore == nil || s.blockStore == nil {
		return fmt.Errorf("match dependencies are not configured")
	}

	pairID := rules.PairID(actorUserID, targetUserID)
	now := s.now().UTC()
	return s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.blockStore.Upsert(txCtx, tx, actorUserID, targetUserID, reason); err != nil {
			return err
		}
		// Unconditional: the update only touches an ACTIVE row, so no match
		// (or an already ended one) is a no-op. A read-then-decide here would
		// miss a match committed between the read and this transaction.
		if _, err := s.matchStore.UpdateState(txCtx, tx, pairID, enums.MatchStateBlocked, actorUserID, now); err != nil {
			return err
		}
		return nil
	})
}
