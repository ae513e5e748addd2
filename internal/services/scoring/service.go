package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
)

const (
	weightSumTolerance = 0.01
	neutralFactor      = 0.5
	oneSidedInterests  = 0.3
	maxHighlights      = 5
)

var ErrInvalidWeights = errors.New("scoring weights must sum to 1.0")

type Factor string

const (
	FactorDistance  Factor = "distance"
	FactorAge       Factor = "age"
	FactorInterests Factor = "interests"
	FactorLifestyle Factor = "lifestyle"
	FactorPace      Factor = "pace"
	FactorLatency   Factor = "latency"
)

// Weights for the six compatibility factors. They must sum to 1.0 within
// 0.01; NewEngine rejects anything else.
type Weights struct {
	Distance  float64
	Age       float64
	Interests float64
	Lifestyle float64
	Pace      float64
	Latency   float64
}

func (w Weights) sum() float64 {
	return w.Distance + w.Age + w.Interests + w.Lifestyle + w.Pace + w.Latency
}

// LatencyBuckets are the activity-recency thresholds for the latency factor.
// Each bucket maps to a strictly lower score than the previous one.
type LatencyBuckets struct {
	Hour  time.Duration
	Day   time.Duration
	Week  time.Duration
	Month time.Duration
}

type Config struct {
	Weights Weights
	Latency LatencyBuckets
}

type Result struct {
	Total      float64
	Breakdown  map[Factor]float64
	Highlights []string
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if math.Abs(cfg.Weights.sum()-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("%w: got %.4f", ErrInvalidWeights, cfg.Weights.sum())
	}
	if cfg.Latency.Hour <= 0 {
		cfg.Latency.Hour = time.Hour
	}
	if cfg.Latency.Day <= cfg.Latency.Hour {
		cfg.Latency.Day = 24 * time.Hour
	}
	if cfg.Latency.Week <= cfg.Latency.Day {
		cfg.Latency.Week = 7 * 24 * time.Hour
	}
	if cfg.Latency.Month <= cfg.Latency.Week {
		cfg.Latency.Month = 30 * 24 * time.Hour
	}

	return &Engine{cfg: cfg}, nil
}

// Score rates candidate against seeker. It is a pure function of its inputs:
// same profiles, config and clock always produce the same result.
func (e *Engine) Score(candidate, seeker model.Profile, now time.Time) Result {
	breakdown := map[Factor]float64{
		FactorDistance:  e.distanceFactor(candidate, seeker),
		FactorAge:       ageFactor(candidate.Age, seeker.Age),
		FactorInterests: interestsFactor(candidate.Interests, seeker.Interests),
		FactorLifestyle: lifestyleFactor(candidate.Lifestyle, seeker.Lifestyle),
		FactorPace:      paceFactor(candidate.Pace, seeker.Pace),
		FactorLatency:   e.latencyFactor(candidate.LastActiveAt, now),
	}

	w := e.cfg.Weights
	total := breakdown[FactorDistance]*w.Distance +
		breakdown[FactorAge]*w.Age +
		breakdown[FactorInterests]*w.Interests +
		breakdown[FactorLifestyle]*w.Lifestyle +
		breakdown[FactorPace]*w.Pace +
		breakdown[FactorLatency]*w.Latency

	return Result{
		Total:      clamp(total*100, 0, 100),
		Breakdown:  breakdown,
		Highlights: buildHighlights(candidate, seeker, breakdown),
	}
}

func (e *Engine) distanceFactor(candidate, seeker model.Profile) float64 {
	if !candidate.LocationSet || !seeker.LocationSet {
		return neutralFactor
	}

	d := DistanceKM(seeker.Lat, seeker.Lon, candidate.Lat, candidate.Lon)
	if d <= 1 {
		return 1.0
	}

	radius := seeker.MaxRadiusKM
	if radius <= 1 {
		return 0.0
	}
	return clamp(1-(d-1)/(radius-1), 0, 1)
}

func ageFactor(candidateAge, seekerAge int) float64 {
	if candidateAge <= 0 || seekerAge <= 0 {
		return neutralFactor
	}
	diff := float64(candidateAge - seekerAge)
	if diff < 0 {
		diff = -diff
	}
	if diff >= 12 {
		return 0.0
	}
	return 1 - diff/12
}

func interestsFactor(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return neutralFactor
	}
	if len(a) == 0 || len(b) == 0 {
		return oneSidedInterests
	}

	// Jaccard over sets: repeated entries on either side count once.
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	intersection := 0
	for v := range setB {
		if _, ok := setA[v]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	// union is never zero here, so no divide-by-zero.
	return float64(intersection) / float64(union)
}

func lifestyleFactor(candidate, seeker map[string]string) float64 {
	shared := 0
	agreed := 0
	for key, seekerValue := range seeker {
		candidateValue, ok := candidate[key]
		if !ok || candidateValue == "" || seekerValue == "" {
			continue
		}
		shared++
		if candidateValue == seekerValue {
			agreed++
		}
	}

	// Missing data is never treated as incompatibility.
	if shared == 0 {
		return neutralFactor
	}
	return float64(agreed) / float64(shared)
}

func paceFactor(candidatePace, seekerPace int) float64 {
	if candidatePace <= 0 || seekerPace <= 0 {
		return neutralFactor
	}
	diff := float64(candidatePace - seekerPace)
	if diff < 0 {
		diff = -diff
	}
	return clamp(1-diff/4, 0, 1)
}

func (e *Engine) latencyFactor(lastActive, now time.Time) float64 {
	if lastActive.IsZero() {
		return neutralFactor
	}

	elapsed := now.Sub(lastActive)
	switch {
	case elapsed <= e.cfg.Latency.Hour:
		return 1.0
	case elapsed <= e.cfg.Latency.Day:
		return 0.75
	case elapsed <= e.cfg.Latency.Week:
		return 0.5
	case elapsed <= e.cfg.Latency.Month:
		return 0.25
	default:
		return 0.1
	}
}

// DistanceKM is the haversine great-circle distance in kilometres.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func sharedInterests(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}

	shared := make([]string, 0, len(b))
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, ok := set[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		shared = append(shared, v)
	}
	sort.Strings(shared)
	return shared
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
