package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
)

func evenWeights() Weights {
	return Weights{
		Distance:  0.2,
		Age:       0.15,
		Interests: 0.25,
		Lifestyle: 0.15,
		Pace:      0.1,
		Latency:   0.15,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewEngine(Config{Weights: evenWeights()})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNewEngineRejectsBadWeightSum(t *testing.T) {
	cases := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "valid", weights: evenWeights(), wantErr: false},
		{name: "within_tolerance", weights: Weights{Distance: 0.2, Age: 0.15, Interests: 0.25, Lifestyle: 0.15, Pace: 0.1, Latency: 0.155}, wantErr: false},
		{name: "too_low", weights: Weights{Distance: 0.2, Age: 0.2, Interests: 0.2}, wantErr: true},
		{name: "too_high", weights: Weights{Distance: 0.5, Age: 0.5, Interests: 0.5}, wantErr: true},
		{name: "all_zero", weights: Weights{}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(Config{Weights: tc.weights})
			if tc.wantErr && err == nil {
				t.Fatalf("expected weight validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDistanceFactorNeutralWhenLocationUnset(t *testing.T) {
	engine := newTestEngine(t)

	// Candidate sits at the literal origin with a set location; the seeker
	// never shared one. Distance must be neutral, not zero.
	seeker := model.Profile{UserID: 1, MaxRadiusKM: 50}
	candidate := model.Profile{UserID: 2, Lat: 0, Lon: 0, LocationSet: true}

	result := engine.Score(candidate, seeker, time.Now())
	if result.Breakdown[FactorDistance] != 0.5 {
		t.Fatalf("unexpected distance factor: got %v want %v", result.Breakdown[FactorDistance], 0.5)
	}
}

func TestDistanceFactorFullWithinOneKM(t *testing.T) {
	engine := newTestEngine(t)

	seeker := model.Profile{UserID: 1, Lat: 53.9006, Lon: 27.5590, LocationSet: true, MaxRadiusKM: 50}
	candidate := model.Profile{UserID: 2, Lat: 53.9007, Lon: 27.5591, LocationSet: true}

	result := engine.Score(candidate, seeker, time.Now())
	if result.Breakdown[FactorDistance] != 1.0 {
		t.Fatalf("unexpected distance factor: got %v want %v", result.Breakdown[FactorDistance], 1.0)
	}
}

func TestDistanceFactorDecaysToZeroAtMaxRadius(t *testing.T) {
	engine := newTestEngine(t)

	// Minsk to Brest is roughly 290 km, far past a 50 km radius.
	seeker := model.Profile{UserID: 1, Lat: 53.9006, Lon: 27.5590, LocationSet: true, MaxRadiusKM: 50}
	candidate := model.Profile{UserID: 2, Lat: 52.0976, Lon: 23.7341, LocationSet: true}

	result := engine.Score(candidate, seeker, time.Now())
	if result.Breakdown[FactorDistance] != 0.0 {
		t.Fatalf("unexpected distance factor: got %v want %v", result.Breakdown[FactorDistance], 0.0)
	}
}

func TestInterestsFactorEdgeCases(t *testing.T) {
	cases := []struct {
		name      string
		candidate []string
		seeker    []string
		want      float64
	}{
		{name: "both_empty", candidate: nil, seeker: nil, want: 0.5},
		{name: "candidate_empty", candidate: nil, seeker: []string{"hiking"}, want: 0.3},
		{name: "seeker_empty", candidate: []string{"hiking"}, seeker: nil, want: 0.3},
		{name: "identical", candidate: []string{"hiking", "jazz"}, seeker: []string{"hiking", "jazz"}, want: 1.0},
		{name: "half_overlap", candidate: []string{"hiking", "jazz"}, seeker: []string{"hiking", "wine"}, want: 1.0 / 3.0},
		{name: "disjoint", candidate: []string{"hiking"}, seeker: []string{"wine"}, want: 0.0},
		{name: "duplicates_count_once", candidate: []string{"hiking"}, seeker: []string{"hiking", "hiking"}, want: 1.0},
		{name: "duplicates_both_sides", candidate: []string{"hiking", "hiking", "jazz"}, seeker: []string{"hiking", "wine", "wine"}, want: 1.0 / 3.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := interestsFactor(tc.candidate, tc.seeker)
			if got != tc.want {
				t.Fatalf("unexpected interests factor: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestLifestyleFactorAveragesOnlyMutualFields(t *testing.T) {
	candidate := map[string]string{"smoking": "never", "pets": "dog"}
	seeker := map[string]string{"smoking": "never", "drinking": "socially"}

	if got := lifestyleFactor(candidate, seeker); got != 1.0 {
		t.Fatalf("unexpected lifestyle factor: got %v want %v", got, 1.0)
	}

	if got := lifestyleFactor(map[string]string{"pets": "dog"}, map[string]string{"smoking": "never"}); got != 0.5 {
		t.Fatalf("expected neutral factor without mutual fields: got %v", got)
	}

	if got := lifestyleFactor(nil, nil); got != 0.5 {
		t.Fatalf("expected neutral factor for empty lifestyle: got %v", got)
	}
}

func TestLatencyFactorMonotonicallyDecreases(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	gaps := []time.Duration{
		30 * time.Minute,
		5 * time.Hour,
		3 * 24 * time.Hour,
		20 * 24 * time.Hour,
		90 * 24 * time.Hour,
	}

	prev := 1.1
	for _, gap := range gaps {
		got := engine.latencyFactor(now.Add(-gap), now)
		if got >= prev {
			t.Fatalf("latency factor not decreasing at gap %v: got %v prev %v", gap, got, prev)
		}
		prev = got
	}

	if got := engine.latencyFactor(time.Time{}, now); got != 0.5 {
		t.Fatalf("expected neutral latency for unknown activity: got %v", got)
	}
}

func TestScoreTotalStaysInRange(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	seeker := model.Profile{
		UserID: 1, Age: 27, Lat: 53.9, Lon: 27.56, LocationSet: true, MaxRadiusKM: 50,
		Interests: []string{"hiking", "jazz"}, Lifestyle: map[string]string{"smoking": "never"},
		Pace: 2, LastActiveAt: now,
	}
	candidate := model.Profile{
		UserID: 2, Age: 26, Lat: 53.91, Lon: 27.57, LocationSet: true,
		Interests: []string{"hiking", "jazz"}, Lifestyle: map[string]string{"smoking": "never"},
		Pace: 2, LastActiveAt: now.Add(-10 * time.Minute),
	}

	result := engine.Score(candidate, seeker, now)
	if result.Total < 0 || result.Total > 100 {
		t.Fatalf("total out of range: %v", result.Total)
	}
	if result.Total < 90 {
		t.Fatalf("near-perfect pair scored too low: %v", result.Total)
	}
	for factor, value := range result.Breakdown {
		if value < 0 || value > 1 {
			t.Fatalf("factor %s out of range: %v", factor, value)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	seeker := model.Profile{UserID: 1, Age: 30, Interests: []string{"wine"}}
	candidate := model.Profile{UserID: 2, Age: 31, Interests: []string{"wine", "art"}}

	first := engine.Score(candidate, seeker, now)
	second := engine.Score(candidate, seeker, now)
	if first.Total != second.Total {
		t.Fatalf("score is not deterministic: %v != %v", first.Total, second.Total)
	}
}

func TestHighlightsSpecificBeforeGeneric(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Now()

	seeker := model.Profile{UserID: 1, Interests: []string{"hiking", "jazz", "wine", "art"}}
	candidate := model.Profile{UserID: 2, Interests: []string{"hiking", "jazz", "wine", "art"}}

	result := engine.Score(candidate, seeker, now)
	if len(result.Highlights) == 0 || len(result.Highlights) > 5 {
		t.Fatalf("unexpected highlights count: %d", len(result.Highlights))
	}
	for _, h := range result.Highlights {
		if !strings.HasPrefix(h, "You both enjoy") && h != "Very similar lifestyle" {
			t.Fatalf("generic highlight appended despite specific ones: %q", h)
		}
	}
}

func TestHighlightsGenericOnlyWhenNoSpecific(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Score(model.Profile{UserID: 2}, model.Profile{UserID: 1}, time.Now())
	if len(result.Highlights) == 0 {
		t.Fatalf("expected generic fallback highlights")
	}
	for _, h := range result.Highlights {
		if strings.HasPrefix(h, "You both enjoy") {
			t.Fatalf("unexpected specific highlight for empty profiles: %q", h)
		}
	}
}

func TestHighlightsCappedAtFive(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Now()

	interests := []string{"hiking", "jazz", "wine", "art", "film", "tea"}
	seeker := model.Profile{
		UserID: 1, Interests: interests, Pace: 2,
		Lat: 53.9, Lon: 27.56, LocationSet: true, MaxRadiusKM: 50,
		Lifestyle: map[string]string{"smoking": "never", "pets": "dog"},
	}
	candidate := model.Profile{
		UserID: 2, Interests: interests, Pace: 2,
		Lat: 53.9, Lon: 27.56, LocationSet: true,
		Lifestyle: map[string]string{"smoking": "never", "pets": "dog"},
	}

	result := engine.Score(candidate, seeker, now)
	if len(result.Highlights) > 5 {
		t.Fatalf("highlights exceed cap: got %d", len(result.Highlights))
	}
}
