package model

import "time"

// UndoRecord remembers the most recent swipe of one actor so it can be
// reversed inside the undo window. MatchPairID is set when the swipe
// produced a match that must be removed together with the swipe.
type UndoRecord struct {
	Swipe       Swipe     `json:"swipe"`
	MatchPairID string    `json:"match_pair_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the record's absolute expiry has passed at now.
func (r UndoRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
