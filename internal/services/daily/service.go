package daily

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/rules"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
	"github.com/TomShtern/Date-Program-sub005/internal/services/discovery"
)

const candidatePoolLimit = 100

var ErrValidation = errors.New("validation error")

type PickStore interface {
	Get(ctx context.Context, seekerID int64, dayKey string) (model.DailyPick, error)
	Save(ctx context.Context, tx pgx.Tx, pick model.DailyPick, retention time.Duration) error
	MarkViewed(ctx context.Context, seekerID int64, dayKey string, now time.Time) (bool, error)
}

type CandidateFinder interface {
	FindCandidates(ctx context.Context, seekerID int64, limit int) ([]discovery.Candidate, error)
}

type Config struct {
	Retention time.Duration
}

// Result is the day's recommendation. Available is false when no candidate
// survives the seeker's discovery pipeline today.
type Result struct {
	Available bool
	DayKey    string
	Candidate discovery.Candidate
	Viewed    bool
}

type Service struct {
	pool      *pgxpool.Pool
	pickStore PickStore
	finder    CandidateFinder
	cfg       Config
	now       func() time.Time
	runTx     func(context.Context, func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool      *pgxpool.Pool
	PickStore PickStore
	Finder    CandidateFinder
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}

	s := &Service{
		pool:      deps.Pool,
		pickStore: deps.PickStore,
		finder:    deps.Finder,
		cfg:       cfg,
		now:       time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// DailyPick returns the seeker's recommendation for the current UTC day.
// A cached pick is reused as long as its candidate still passes discovery;
// otherwise a fresh draw replaces it. The draw is seeded from the day key
// and the seeker, so replaying the same day over the same pool lands on the
// same candidate.
func (s *Service) DailyPick(ctx context.Context, seekerID int64) (Result, error) {
	if seekerID <= 0 {
		return Result{}, ErrValidation
	}
	if s.pickStore == nil || s.finder == nil || s.runTx == nil {
		return Result{}, fmt.Errorf("daily pick dependencies are not configured")
	}

	now := s.now().UTC()
	dayKey := rules.DayKey(now, time.UTC)

	candidates, err := s.finder.FindCandidates(ctx, seekerID, candidatePoolLimit)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return Result{DayKey: dayKey}, nil
	}

	byID := make(map[int64]discovery.Candidate, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.Profile.UserID] = candidate
	}

	cached, err := s.pickStore.Get(ctx, seekerID, dayKey)
	if err == nil {
		if candidate, eligible := byID[cached.CandidateUserID]; eligible {
			return Result{
				Available: true,
				DayKey:    dayKey,
				Candidate: candidate,
				Viewed:    cached.Viewed(),
			}, nil
		}
		// Cached candidate fell out of the pool, redraw below.
	} else if !errors.Is(err, pgrepo.ErrDailyPickNotFound) {
		return Result{}, err
	}

	chosen := candidates[drawIndex(dayKey, seekerID, len(candidates))]
	pick := model.DailyPick{
		SeekerUserID:    seekerID,
		DayKey:          dayKey,
		CandidateUserID: chosen.Profile.UserID,
		CreatedAt:       now,
	}

	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return s.pickStore.Save(txCtx, tx, pick, s.cfg.Retention)
	}); err != nil {
		return Result{}, err
	}

	return Result{
		Available: true,
		DayKey:    dayKey,
		Candidate: chosen,
	}, nil
}

// MarkViewed flags today's pick as seen. Reports false when there is no
// pick for today or it was already viewed.
func (s *Service) MarkViewed(ctx context.Context, seekerID int64) (bool, error) {
	if seekerID <= 0 {
		return false, ErrValidation
	}
	if s.pickStore == nil {
		return false, fmt.Errorf("daily pick dependencies are not configured")
	}

	now := s.now().UTC()
	return s.pickStore.MarkViewed(ctx, seekerID, rules.DayKey(now, time.UTC), now)
}

// drawIndex maps (dayKey, seeker) onto the candidate pool. The seed ignores
// pool contents, so a stable pool gives a stable draw.
func drawIndex(dayKey string, seekerID int64, size int) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(dayKey))
	_, _ = h.Write([]byte(":"))
	_, _ = h.Write([]byte(strconv.FormatInt(seekerID, 10)))

	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return rng.Intn(size)
}
