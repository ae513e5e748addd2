package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/rules"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
)

type matchStoreStub struct {
	matches map[string]*model.Match
}

func newMatchStoreStub(matches ...model.Match) *matchStoreStub {
	stub := &matchStoreStub{matches: make(map[string]*model.Match)}
	for i := range matches {
		stub.matches[matches[i].PairID] = &matches[i]
	}
	return stub
}

func (s *matchStoreStub) GetByPair(_ context.Context, userID, targetID int64) (model.Match, error) {
	match, ok := s.matches[rules.PairID(userID, targetID)]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return *match, nil
}

func (s *matchStoreStub) ListActiveForUser(_ context.Context, userID int64, limit int) ([]model.Match, error) {
	items := make([]model.Match, 0)
	for _, match := range s.matches {
		if match.State != enums.MatchStateActive {
			continue
		}
		if match.UserAID == userID || match.UserBID == userID {
			items = append(items, *match)
		}
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *matchStoreStub) ListAllForUser(_ context.Context, userID int64, limit int) ([]model.Match, error) {
	items := make([]model.Match, 0)
	for _, match := range s.matches {
		if match.UserAID == userID || match.UserBID == userID {
			items = append(items, *match)
		}
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *matchStoreStub) UpdateState(_ context.Context, _ pgx.Tx, pairID string, state enums.MatchState, endedBy int64, now time.Time) (bool, error) {
	match, ok := s.matches[pairID]
	if !ok || match.State != enums.MatchStateActive {
		return false, nil
	}
	match.State = state
	match.EndedAt = &now
	match.EndedBy = &endedBy
	return true, nil
}

type blockStoreStub struct {
	blocks map[[2]int64]string
}

func newBlockStoreStub() *blockStoreStub {
	return &blockStoreStub{blocks: make(map[[2]int64]string)}
}

func (s *blockStoreStub) Upsert(_ context.Context, _ pgx.Tx, actorUserID, targetUserID int64, reason string) error {
	s.blocks[[2]int64{actorUserID, targetUserID}] = reason
	return nil
}

func activeMatch(a, b int64) model.Match {
	userA, userB := rules.NormalizePair(a, b)
	return model.Match{
		PairID:    rules.PairID(a, b),
		UserAID:   userA,
		UserBID:   userB,
		State:     enums.MatchStateActive,
		CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
}

func newTestService(matchStore *matchStoreStub, blockStore *blockStoreStub) *Service {
	svc := &Service{
		matchStore: matchStore,
		blockStore: blockStore,
		now: func() time.Time {
			return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
		},
	}
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	return svc
}

func TestEndRecordsTerminalState(t *testing.T) {
	for _, state := range []enums.MatchState{
		enums.MatchStateFriends,
		enums.MatchStateUnmatched,
		enums.MatchStateGracefulExit,
	} {
		store := newMatchStoreStub(activeMatch(1, 2))
		svc := newTestService(store, newBlockStoreStub())

		match, err := svc.End(context.Background(), 1, 2, state)
		if err != nil {
			t.Fatalf("end to %s: %v", state, err)
		}
		if match.State != state {
			t.Fatalf("unexpected state: got %s want %s", match.State, state)
		}
		if match.EndedAt == nil || match.EndedBy == nil || *match.EndedBy != 1 {
			t.Fatalf("ending metadata missing: %+v", match)
		}

		stored := store.matches[rules.PairID(1, 2)]
		if stored.State != state || stored.EndedBy == nil || *stored.EndedBy != 1 {
			t.Fatalf("unexpected stored match: %+v", stored)
		}
	}
}

func TestEndRejectsTerminalMatch(t *testing.T) {
	ended := activeMatch(1, 2)
	ended.State = enums.MatchStateUnmatched
	svc := newTestService(newMatchStoreStub(ended), newBlockStoreStub())

	if _, err := svc.End(context.Background(), 1, 2, enums.MatchStateFriends); !errors.Is(err, ErrAlreadyEnded) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrAlreadyEnded)
	}
}

func TestEndRejectsNonTerminalTarget(t *testing.T) {
	svc := newTestService(newMatchStoreStub(activeMatch(1, 2)), newBlockStoreStub())

	if _, err := svc.End(context.Background(), 1, 2, enums.MatchStateActive); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrInvalidState)
	}
}

func TestEndUnknownPair(t *testing.T) {
	svc := newTestService(newMatchStoreStub(), newBlockStoreStub())

	if _, err := svc.End(context.Background(), 1, 2, enums.MatchStateUnmatched); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrNotFound)
	}
}

func TestBlockEndsActiveMatch(t *testing.T) {
	store := newMatchStoreStub(activeMatch(1, 2))
	blocks := newBlockStoreStub()
	svc := newTestService(store, blocks)

	if err := svc.Block(context.Background(), 2, 1, "spam"); err != nil {
		t.Fatalf("block: %v", err)
	}

	if got := blocks.blocks[[2]int64{2, 1}]; got != "spam" {
		t.Fatalf("unexpected block reason: got %q want %q", got, "spam")
	}

	stored := store.matches[rules.PairID(1, 2)]
	if stored.State != enums.MatchStateBlocked {
		t.Fatalf("unexpected match state after block: got %s want %s", stored.State, enums.MatchStateBlocked)
	}
	if stored.EndedBy == nil || *stored.EndedBy != 2 {
		t.Fatalf("unexpected ending actor: %+v", stored)
	}
}

// raceMatchStore hides the match from point reads, as if the row committed
// after any lookup the caller could have made before its transaction.
type raceMatchStore struct {
	*matchStoreStub
}

func (s *raceMatchStore) GetByPair(context.Context, int64, int64) (model.Match, error) {
	return model.Match{}, pgrepo.ErrMatchNotFound
}

func TestBlockEndsMatchInvisibleToPriorRead(t *testing.T) {
	store := newMatchStoreStub(activeMatch(1, 2))
	svc := newTestService(store, newBlockStoreStub())
	svc.matchStore = &raceMatchStore{matchStoreStub: store}

	if err := svc.Block(context.Background(), 1, 2, ""); err != nil {
		t.Fatalf("block: %v", err)
	}

	stored := store.matches[rules.PairID(1, 2)]
	if stored.State != enums.MatchStateBlocked {
		t.Fatalf("concurrently created match survived the block: got %s want %s", stored.State, enums.MatchStateBlocked)
	}
}

func TestBlockWithoutMatch(t *testing.T) {
	blocks := newBlockStoreStub()
	svc := newTestService(newMatchStoreStub(), blocks)

	if err := svc.Block(context.Background(), 1, 9, ""); err != nil {
		t.Fatalf("block without match: %v", err)
	}
	if _, ok := blocks.blocks[[2]int64{1, 9}]; !ok {
		t.Fatalf("expected block to be recorded")
	}
}

func TestListActiveFiltersEnded(t *testing.T) {
	ended := activeMatch(1, 3)
	ended.State = enums.MatchStateFriends
	store := newMatchStoreStub(activeMatch(1, 2), ended)
	svc := newTestService(store, newBlockStoreStub())

	active, err := svc.ListActive(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].PairID != rules.PairID(1, 2) {
		t.Fatalf("unexpected active matches: %+v", active)
	}

	all, err := svc.ListAll(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unexpected all matches count: got %d want 2", len(all))
	}
}

func TestGetByPairValidation(t *testing.T) {
	svc := newTestService(newMatchStoreStub(), newBlockStoreStub())

	if _, err := svc.GetByPair(context.Background(), 5, 5); !errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrValidation)
	}
	if _, err := svc.GetByPair(context.Background(), 5, 6); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrNotFound)
	}
}
