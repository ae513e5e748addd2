package undo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrRecordNotFound = errors.New("undo record not found")
)

type Outcome string

const (
	OutcomeUndone        Outcome = "undone"
	OutcomeNothingToUndo Outcome = "nothing_to_undo"
	OutcomeExpired       Outcome = "expired"
)

// RecordStore keeps at most one live record per actor. Put overwrites.
type RecordStore interface {
	Put(ctx context.Context, record model.UndoRecord) error
	Get(ctx context.Context, actorUserID int64) (model.UndoRecord, error)
	Clear(ctx context.Context, actorUserID int64) error
}

type SwipeStore interface {
	Delete(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) error
}

type MatchStore interface {
	DeleteByPair(ctx context.Context, tx pgx.Tx, pairID string) (bool, error)
}

type SessionStore interface {
	RevertSwipe(ctx context.Context, tx pgx.Tx, actorUserID int64, direction enums.SwipeDirection, matched bool) error
	RevertMatchCredit(ctx context.Context, tx pgx.Tx, actorUserID int64) error
}

type Result struct {
	Outcome Outcome
	Swipe   model.Swipe
}

type Service struct {
	pool         *pgxpool.Pool
	records      RecordStore
	swipeStore   SwipeStore
	matchStore   MatchStore
	sessionStore SessionStore
	now          func() time.Time
	runTx        func(context.Context, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	Records      RecordStore
	SwipeStore   SwipeStore
	MatchStore   MatchStore
	SessionStore SessionStore
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		pool:         deps.Pool,
		records:      deps.Records,
		swipeStore:   deps.SwipeStore,
		matchStore:   deps.MatchStore,
		sessionStore: deps.SessionStore,
		now:          time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// RecordForUndo stores the actor's latest reversible swipe, replacing any
// earlier record.
func (s *Service) RecordForUndo(ctx context.Context, record model.UndoRecord) error {
	if record.Swipe.ActorUserID <= 0 || record.Swipe.TargetUserID <= 0 || record.ExpiresAt.IsZero() {
		return ErrValidation
	}
	if s.records == nil {
		return fmt.Errorf("undo record store is not configured")
	}
	return s.records.Put(ctx, record)
}

// CanUndo reports whether the actor holds a live, unexpired record. Expiry
// is checked lazily here; an expired record is dropped on sight.
func (s *Service) CanUndo(ctx context.Context, actorUserID int64) (bool, error) {
	if actorUserID <= 0 {
		return false, ErrValidation
	}
	if s.records == nil {
		return false, fmt.Errorf("undo record store is not configured")
	}

	record, err := s.records.Get(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if record.Expired(s.now().UTC()) {
		if err := s.records.Clear(ctx, actorUserID); err != nil {
			return false, fmt.Errorf("clear expired undo record: %w", err)
		}
		return false, nil
	}

	return true, nil
}

// Undo reverses the actor's recorded swipe. The record is consumed by the
// attempt whatever happens next; an expired window is a normal outcome, not
// an error. Removal runs dependent-first in one transaction: the match the
// swipe produced goes before the swipe itself, so a failure rolls both back
// together and is surfaced, never half-applied.
func (s *Service) Undo(ctx context.Context, actorUserID int64) (Result, error) {
	if actorUserID <= 0 {
		return Result{}, ErrValidation
	}
	if s.records == nil || s.swipeStore == nil || s.matchStore == nil || s.runTx == nil {
		return Result{}, fmt.Errorf("undo dependencies are not configured")
	}

	record, err := s.records.Get(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Result{Outcome: OutcomeNothingToUndo}, nil
		}
		return Result{}, err
	}

	if err := s.records.Clear(ctx, actorUserID); err != nil {
		return Result{}, fmt.Errorf("consume undo record: %w", err)
	}

	if record.Expired(s.now().UTC()) {
		return Result{Outcome: OutcomeExpired}, nil
	}

	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if record.MatchPairID != "" {
			if _, err := s.matchStore.DeleteByPair(txCtx, tx, record.MatchPairID); err != nil {
				return err
			}
		}
		if err := s.swipeStore.Delete(txCtx, tx, record.Swipe.ActorUserID, record.Swipe.TargetUserID); err != nil {
			if errors.Is(err, pgrepo.ErrSwipeNotFound) {
				// Swipe is gone but the record said otherwise; roll back
				// the match delete and report the inconsistency.
				return fmt.Errorf("undo state inconsistent: %w", err)
			}
			return err
		}
		if s.sessionStore != nil {
			matched := record.MatchPairID != ""
			if err := s.sessionStore.RevertSwipe(txCtx, tx, actorUserID, record.Swipe.Direction, matched); err != nil {
				return err
			}
			// The other participant was credited when the match formed;
			// deleting the match takes that credit back too.
			if matched {
				if err := s.sessionStore.RevertMatchCredit(txCtx, tx, record.Swipe.TargetUserID); err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return Result{}, err
	}

	return Result{Outcome: OutcomeUndone, Swipe: record.Swipe}, nil
}
