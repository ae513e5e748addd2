package model

import "time"

// Dealbreaker is a hard-filter rule on a lifestyle attribute. A candidate
// whose attribute value is not in Allowed is excluded; a candidate missing
// the attribute entirely fails the check as well (fail closed).
type Dealbreaker struct {
	Attribute string   `json:"attribute"`
	Allowed   []string `json:"allowed"`
}

// Profile is the read-only projection of the profile collaborator that the
// matching core consumes. LocationSet distinguishes "no location" from a
// profile genuinely located at the origin.
type Profile struct {
	UserID        int64             `json:"user_id"`
	DisplayName   string            `json:"display_name"`
	Age           int               `json:"age"`
	Gender        string            `json:"gender"`
	SoughtGenders []string          `json:"sought_genders"`
	AgeMin        int               `json:"age_min"`
	AgeMax        int               `json:"age_max"`
	Lat           float64           `json:"lat"`
	Lon           float64           `json:"lon"`
	LocationSet   bool              `json:"location_set"`
	MaxRadiusKM   float64           `json:"max_radius_km"`
	Interests     []string          `json:"interests"`
	Lifestyle     map[string]string `json:"lifestyle"`
	Pace          int               `json:"pace"`
	LastActiveAt  time.Time         `json:"last_active_at"`
	Dealbreakers  []Dealbreaker     `json:"dealbreakers"`
}

// Seeks reports whether the profile's sought-gender set contains gender.
func (p Profile) Seeks(gender string) bool {
	for _, g := range p.SoughtGenders {
		if g == gender {
			return true
		}
	}
	return false
}

// AcceptsAge reports whether age falls inside the profile's preferred range.
// An unset bound (zero) does not constrain.
func (p Profile) AcceptsAge(age int) bool {
	if p.AgeMin > 0 && age < p.AgeMin {
		return false
	}
	if p.AgeMax > 0 && age > p.AgeMax {
		return false
	}
	return true
}
