package model

import (
	"time"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
)

// Match is keyed by PairID, derived purely from the unordered participant
// pair. UserAID < UserBID always holds.
type Match struct {
	PairID    string           `json:"pair_id"`
	UserAID   int64            `json:"user_a_id"`
	UserBID   int64            `json:"user_b_id"`
	State     enums.MatchState `json:"state"`
	CreatedAt time.Time        `json:"created_at"`
	EndedAt   *time.Time       `json:"ended_at,omitempty"`
	EndedBy   *int64           `json:"ended_by,omitempty"`
}

// Other returns the participant that is not userID, or 0 when userID is not
// part of the match.
func (m Match) Other(userID int64) int64 {
	switch userID {
	case m.UserAID:
		return m.UserBID
	case m.UserBID:
		return m.UserAID
	default:
		return 0
	}
}
