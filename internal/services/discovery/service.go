package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
	"github.com/TomShtern/Date-Program-sub005/internal/services/scoring"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("seeker not found")
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	ListActive(ctx context.Context) ([]model.Profile, error)
}

// RelationStore reports every user id the actor has a swipe or match record
// with, in either direction. Old records are sticky: an unmatch does not
// bring the pair back into discovery.
type RelationStore interface {
	RelatedUserIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

// BlockStore reports blocks in both directions at once.
type BlockStore interface {
	BlockedUserIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

type Candidate struct {
	Profile model.Profile
	Score   scoring.Result
}

type Service struct {
	profiles  ProfileStore
	relations RelationStore
	blocks    BlockStore
	engine    *scoring.Engine
	now       func() time.Time
}

type Dependencies struct {
	Profiles  ProfileStore
	Relations RelationStore
	Blocks    BlockStore
	Engine    *scoring.Engine
}

func NewService(deps Dependencies) *Service {
	return &Service{
		profiles:  deps.Profiles,
		relations: deps.Relations,
		blocks:    deps.Blocks,
		engine:    deps.Engine,
		now:       time.Now,
	}
}

// FindCandidates runs the fixed filter pipeline for one seeker and returns
// the ranked survivors. The stage order never changes: self, prior
// swipe/match, blocks, mutual gender preference, mutual age range,
// dealbreakers, distance, then scoring.
func (s *Service) FindCandidates(ctx context.Context, seekerID int64, limit int) ([]Candidate, error) {
	if seekerID <= 0 {
		return nil, ErrValidation
	}
	if s.profiles == nil || s.relations == nil || s.blocks == nil || s.engine == nil {
		return nil, fmt.Errorf("discovery dependencies are not configured")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	seeker, err := s.profiles.Get(ctx, seekerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load seeker profile: %w", err)
	}

	pool, err := s.profiles.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active profiles: %w", err)
	}

	related, err := s.relations.RelatedUserIDs(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("list related users: %w", err)
	}

	blocked, err := s.blocks.BlockedUserIDs(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}

	now := s.now().UTC()
	candidates := make([]Candidate, 0, len(pool))
	for _, candidate := range pool {
		if candidate.UserID == seekerID {
			continue
		}
		if _, ok := related[candidate.UserID]; ok {
			continue
		}
		if _, ok := blocked[candidate.UserID]; ok {
			continue
		}
		if !seeker.Seeks(candidate.Gender) || !candidate.Seeks(seeker.Gender) {
			continue
		}
		if !seeker.AcceptsAge(candidate.Age) || !candidate.AcceptsAge(seeker.Age) {
			continue
		}
		if violatesDealbreakers(seeker.Dealbreakers, candidate) {
			continue
		}
		if tooFar(seeker, candidate) {
			continue
		}

		candidates = append(candidates, Candidate{
			Profile: candidate,
			Score:   s.engine.Score(candidate, seeker, now),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		left := candidates[i]
		right := candidates[j]
		if left.Score.Total != right.Score.Total {
			return left.Score.Total > right.Score.Total
		}
		return left.Profile.LastActiveAt.After(right.Profile.LastActiveAt)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// violatesDealbreakers fails closed: a candidate missing a required
// attribute is excluded rather than passing by default.
func violatesDealbreakers(rules []model.Dealbreaker, candidate model.Profile) bool {
	for _, rule := range rules {
		value, ok := candidate.Lifestyle[rule.Attribute]
		if !ok || value == "" {
			return true
		}
		allowed := false
		for _, v := range rule.Allowed {
			if v == value {
				allowed = true
				break
			}
		}
		if !allowed {
			return true
		}
	}
	return false
}

// tooFar hard-filters on distance only when both sides carry a set location.
// An unset location exempts the profile; the origin point with LocationSet
// is a legitimate place, not a sentinel.
func tooFar(seeker, candidate model.Profile) bool {
	if !seeker.LocationSet || !candidate.LocationSet {
		return false
	}
	if seeker.MaxRadiusKM <= 0 {
		return false
	}
	return scoring.DistanceKM(seeker.Lat, seeker.Lon, candidate.Lat, candidate.Lon) > seeker.MaxRadiusKM
}
