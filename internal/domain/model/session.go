package model

import "time"

// Session aggregates one actor's open activity window. At most one session
// per actor is open at a time; MatchCount never exceeds LikeCount.
type Session struct {
	ID             int64      `json:"id"`
	ActorUserID    int64      `json:"actor_user_id"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	LikeCount      int        `json:"like_count"`
	SuperLikeCount int        `json:"superlike_count"`
	PassCount      int        `json:"pass_count"`
	MatchCount     int        `json:"match_count"`
}

func (s Session) SwipeCount() int {
	return s.LikeCount + s.SuperLikeCount + s.PassCount
}
