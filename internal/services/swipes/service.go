package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	"github.com/TomShtern/Date-Program-sub005/internal/pkg/striped"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrUnsupportedDirection = errors.New("unsupported swipe direction")
)

// TooFastError is returned when the velocity limiter rejects a positive
// swipe. RetryAfterSec tells the caller when the window reopens.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return fmt.Sprintf("too many swipes, retry after %d seconds", e.RetryAfterSec)
}

type Outcome string

const (
	OutcomeAlreadySwiped Outcome = "already_swiped"
	OutcomeNoMatch       Outcome = "no_match"
	OutcomeMatched       Outcome = "matched"
)

type SwipeStore interface {
	Save(ctx context.Context, tx pgx.Tx, swipe model.Swipe) (bool, error)
	MutualExists(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (bool, error)
}

type MatchStore interface {
	SaveOrGet(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error)
}

type SessionStore interface {
	ApplySwipe(ctx context.Context, tx pgx.Tx, actorUserID int64, direction enums.SwipeDirection, matched bool, now time.Time) (model.Session, error)
	ApplyMatch(ctx context.Context, tx pgx.Tx, actorUserID int64, now time.Time) (model.Session, error)
}

type UndoRecorder interface {
	RecordForUndo(ctx context.Context, record model.UndoRecord) error
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	StripeCount int
	UndoWindow  time.Duration
}

type Result struct {
	Outcome Outcome
	Match   *model.Match
	Session model.Session
}

type Service struct {
	pool         *pgxpool.Pool
	swipeStore   SwipeStore
	matchStore   MatchStore
	sessionStore SessionStore
	undoRecorder UndoRecorder
	rateLimiter  RateLimiter
	stripes      *striped.Pool
	cfg          Config
	now          func() time.Time
	runTx        func(context.Context, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	SwipeStore   SwipeStore
	MatchStore   MatchStore
	SessionStore SessionStore
	UndoRecorder UndoRecorder
	RateLimiter  RateLimiter
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.StripeCount <= 0 {
		cfg.StripeCount = 256
	}
	if cfg.UndoWindow <= 0 {
		cfg.UndoWindow = 30 * time.Second
	}

	s := &Service{
		pool:         deps.Pool,
		swipeStore:   deps.SwipeStore,
		matchStore:   deps.MatchStore,
		sessionStore: deps.SessionStore,
		undoRecorder: deps.UndoRecorder,
		rateLimiter:  deps.RateLimiter,
		stripes:      striped.NewPool(cfg.StripeCount),
		cfg:          cfg,
		now:          time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// RecordSwipe persists one swipe and resolves its outcome under the actor's
// stripe lock. The lock keys on the actor, so two users swiping each other
// concurrently hold different stripes; the match row's unique pair id is
// what makes the outcome correct across processes, the stripe only thins
// contention on a single actor's hot path.
func (s *Service) RecordSwipe(ctx context.Context, actorUserID, targetUserID int64, direction enums.SwipeDirection) (Result, error) {
	if actorUserID <= 0 || targetUserID <= 0 || actorUserID == targetUserID {
		return Result{}, ErrValidation
	}
	if !direction.Valid() {
		return Result{}, ErrUnsupportedDirection
	}
	if s.runTx == nil || s.swipeStore == nil || s.matchStore == nil || s.sessionStore == nil {
		return Result{}, fmt.Errorf("swipe dependencies are not configured")
	}

	if direction.Positive() && s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, actorUserID)
		if err != nil {
			return Result{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			return Result{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()
	swipe := model.Swipe{
		ActorUserID:  actorUserID,
		TargetUserID: targetUserID,
		Direction:    direction,
		CreatedAt:    now,
	}

	s.stripes.Lock(actorUserID)
	defer s.stripes.Unlock(actorUserID)

	result := Result{Outcome: OutcomeNoMatch}
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		inserted, err := s.swipeStore.Save(txCtx, tx, swipe)
		if err != nil {
			return err
		}
		if !inserted {
			// The stored record wins. No counters, no match check.
			result.Outcome = OutcomeAlreadySwiped
			return nil
		}

		matched := false
		if direction.Positive() {
			mutual, err := s.swipeStore.MutualExists(txCtx, tx, actorUserID, targetUserID)
			if err != nil {
				return err
			}
			if mutual {
				match, _, err := s.matchStore.SaveOrGet(txCtx, tx, actorUserID, targetUserID, now)
				if err != nil {
					return err
				}
				matched = true
				result.Outcome = OutcomeMatched
				result.Match = &match

				if _, err := s.sessionStore.ApplyMatch(txCtx, tx, targetUserID, now); err != nil {
					return err
				}
			}
		}

		session, err := s.sessionStore.ApplySwipe(txCtx, tx, actorUserID, direction, matched, now)
		if err != nil {
			return err
		}
		result.Session = session
		return nil
	}); err != nil {
		return Result{}, err
	}

	if result.Outcome != OutcomeAlreadySwiped && s.undoRecorder != nil {
		record := model.UndoRecord{
			Swipe:     swipe,
			ExpiresAt: now.Add(s.cfg.UndoWindow),
		}
		if result.Match != nil {
			record.MatchPairID = result.Match.PairID
		}
		if err := s.undoRecorder.RecordForUndo(ctx, record); err != nil {
			return Result{}, fmt.Errorf("record swipe for undo: %w", err)
		}
	}

	return result, nil
}
