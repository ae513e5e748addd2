package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/rules"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type Store interface {
	GetOpen(ctx context.Context, actorUserID int64) (model.Session, error)
	Close(ctx context.Context, actorUserID int64, now time.Time) (bool, error)
}

// Stats is a read-only view over the actor's open session. Open is false
// when no session is running; the zero counters then mean nothing happened,
// not that a session exists.
type Stats struct {
	Open            bool
	Session         model.Session
	SwipesPerMinute float64
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) Stats(ctx context.Context, actorUserID int64) (Stats, error) {
	if actorUserID <= 0 {
		return Stats{}, ErrValidation
	}
	if s.store == nil {
		return Stats{}, fmt.Errorf("session store is not configured")
	}

	session, err := s.store.GetOpen(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSessionNotFound) {
			return Stats{}, nil
		}
		return Stats{}, err
	}

	elapsed := int64(s.now().UTC().Sub(session.StartedAt).Seconds())
	return Stats{
		Open:            true,
		Session:         session,
		SwipesPerMinute: rules.SwipesPerMinute(session.SwipeCount(), elapsed),
	}, nil
}

// Close ends the actor's open session. Closing without one is a no-op and
// reports false.
func (s *Service) Close(ctx context.Context, actorUserID int64) (bool, error) {
	if actorUserID <= 0 {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, fmt.Errorf("session store is not configured")
	}

	return s.store.Close(ctx, actorUserID, s.now().UTC())
}
