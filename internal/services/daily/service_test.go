package daily

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
	"github.com/TomShtern/Date-Program-sub005/internal/services/discovery"
)

type pickStoreStub struct {
	picks map[string]model.DailyPick
	saves int
}

func newPickStoreStub() *pickStoreStub {
	return &pickStoreStub{picks: make(map[string]model.DailyPick)}
}

func pickKey(seekerID int64, dayKey string) string {
	return dayKey + "/" + strconv.FormatInt(seekerID, 10)
}

func (s *pickStoreStub) Get(_ context.Context, seekerID int64, dayKey string) (model.DailyPick, error) {
	pick, ok := s.picks[pickKey(seekerID, dayKey)]
	if !ok {
		return model.DailyPick{}, pgrepo.ErrDailyPickNotFound
	}
	return pick, nil
}

func (s *pickStoreStub) Save(_ context.Context, _ pgx.Tx, pick model.DailyPick, _ time.Duration) error {
	s.picks[pickKey(pick.SeekerUserID, pick.DayKey)] = pick
	s.saves++
	return nil
}

func (s *pickStoreStub) MarkViewed(_ context.Context, seekerID int64, dayKey string, now time.Time) (bool, error) {
	key := pickKey(seekerID, dayKey)
	pick, ok := s.picks[key]
	if !ok || pick.ViewedAt != nil {
		return false, nil
	}
	pick.ViewedAt = &now
	s.picks[key] = pick
	return true, nil
}

type finderStub struct {
	candidates []discovery.Candidate
}

func (s *finderStub) FindCandidates(context.Context, int64, int) ([]discovery.Candidate, error) {
	return s.candidates, nil
}

func candidate(userID int64) discovery.Candidate {
	return discovery.Candidate{Profile: model.Profile{UserID: userID}}
}

func newTestService(store *pickStoreStub, finder *finderStub, now time.Time) *Service {
	svc := &Service{
		pickStore: store,
		finder:    finder,
		cfg:       Config{Retention: 7 * 24 * time.Hour},
		now:       func() time.Time { return now },
	}
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	return svc
}

func TestDailyPickStableWithinDayAsPoolGrows(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := newPickStoreStub()
	finder := &finderStub{candidates: []discovery.Candidate{candidate(10), candidate(11), candidate(12)}}
	svc := newTestService(store, finder, now)

	first, err := svc.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("first pick: %v", err)
	}
	if !first.Available {
		t.Fatalf("expected a pick from a non-empty pool")
	}

	// New profiles join during the day; the cached pick must hold.
	finder.candidates = append(finder.candidates, candidate(13), candidate(14), candidate(15), candidate(16))

	second, err := svc.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("second pick: %v", err)
	}
	if second.Candidate.Profile.UserID != first.Candidate.Profile.UserID {
		t.Fatalf("pick changed within the day: got %d want %d", second.Candidate.Profile.UserID, first.Candidate.Profile.UserID)
	}
	if store.saves != 1 {
		t.Fatalf("cached pick must not be rewritten, got %d saves", store.saves)
	}
}

func TestDailyPickDeterministicDraw(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	pool := []discovery.Candidate{candidate(10), candidate(11), candidate(12), candidate(13)}

	svcA := newTestService(newPickStoreStub(), &finderStub{candidates: pool}, now)
	svcB := newTestService(newPickStoreStub(), &finderStub{candidates: pool}, now)

	pickA, err := svcA.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("pick A: %v", err)
	}
	pickB, err := svcB.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("pick B: %v", err)
	}
	if pickA.Candidate.Profile.UserID != pickB.Candidate.Profile.UserID {
		t.Fatalf("same day and pool must draw the same candidate: got %d and %d",
			pickA.Candidate.Profile.UserID, pickB.Candidate.Profile.UserID)
	}
}

func TestDailyPickRedrawsWhenCachedCandidateIneligible(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := newPickStoreStub()
	finder := &finderStub{candidates: []discovery.Candidate{candidate(10), candidate(11)}}
	svc := newTestService(store, finder, now)

	first, err := svc.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("first pick: %v", err)
	}

	// The picked candidate drops out, e.g. got swiped or deactivated.
	remaining := make([]discovery.Candidate, 0, 1)
	for _, c := range finder.candidates {
		if c.Profile.UserID != first.Candidate.Profile.UserID {
			remaining = append(remaining, c)
		}
	}
	finder.candidates = remaining

	second, err := svc.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("second pick: %v", err)
	}
	if !second.Available {
		t.Fatalf("expected redraw from remaining pool")
	}
	if second.Candidate.Profile.UserID == first.Candidate.Profile.UserID {
		t.Fatalf("ineligible candidate must not be served again")
	}
	if store.saves != 2 {
		t.Fatalf("redraw must persist the new pick, got %d saves", store.saves)
	}
}

func TestDailyPickEmptyPool(t *testing.T) {
	svc := newTestService(newPickStoreStub(), &finderStub{}, time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC))

	result, err := svc.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if result.Available {
		t.Fatalf("empty pool must yield no pick, got %+v", result)
	}
	if result.DayKey != "2026-08-24" {
		t.Fatalf("unexpected day key: %q", result.DayKey)
	}
}

func TestMarkViewedOncePerDay(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := newPickStoreStub()
	finder := &finderStub{candidates: []discovery.Candidate{candidate(10)}}
	svc := newTestService(store, finder, now)

	if _, err := svc.DailyPick(context.Background(), 1); err != nil {
		t.Fatalf("pick: %v", err)
	}

	marked, err := svc.MarkViewed(context.Background(), 1)
	if err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if !marked {
		t.Fatalf("expected first mark to apply")
	}

	again, err := svc.MarkViewed(context.Background(), 1)
	if err != nil {
		t.Fatalf("mark viewed again: %v", err)
	}
	if again {
		t.Fatalf("second mark must be a no-op")
	}

	result, err := svc.DailyPick(context.Background(), 1)
	if err != nil {
		t.Fatalf("pick after view: %v", err)
	}
	if !result.Viewed {
		t.Fatalf("expected pick to report viewed")
	}
}
