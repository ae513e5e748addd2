package rules

// SwipesPerMinute converts a swipe count over an elapsed interval into a
// per-minute rate. The elapsed time is kept in seconds so short sessions are
// not floored to zero minutes; a zero elapsed interval returns the raw count.
func SwipesPerMinute(swipes int, elapsedSeconds int64) float64 {
	if elapsedSeconds <= 0 {
		return float64(swipes)
	}
	return float64(swipes) * 60 / float64(elapsedSeconds)
}
