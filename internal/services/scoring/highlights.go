package scoring

import (
	"fmt"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
)

var genericHighlights = []string{
	"Could be a great conversation",
	"Say hello and find out",
}

// buildHighlights collects specific highlights first and falls back to
// generic fillers only when no specific highlight exists. The list is
// capped at maxHighlights.
func buildHighlights(candidate, seeker model.Profile, breakdown map[Factor]float64) []string {
	highlights := make([]string, 0, maxHighlights)

	shared := sharedInterests(candidate.Interests, seeker.Interests)
	for _, interest := range shared {
		if len(highlights) >= 3 {
			break
		}
		highlights = append(highlights, fmt.Sprintf("You both enjoy %s", interest))
	}

	if candidate.LocationSet && seeker.LocationSet {
		if DistanceKM(seeker.Lat, seeker.Lon, candidate.Lat, candidate.Lon) <= 5 {
			highlights = append(highlights, "Lives nearby")
		}
	}

	if candidate.Pace > 0 && candidate.Pace == seeker.Pace {
		highlights = append(highlights, "Looking for the same pace")
	}

	if breakdown[FactorLifestyle] >= 0.75 {
		highlights = append(highlights, "Very similar lifestyle")
	}

	if len(highlights) == 0 {
		highlights = append(highlights, genericHighlights...)
	}

	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}
	return highlights
}
