package dto

import "time"

type MatchResponse struct {
	PairID      string     `json:"pair_id"`
	OtherUserID int64      `json:"other_user_id"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	EndedBy     *int64     `json:"ended_by,omitempty"`
}

type MatchesResponse struct {
	Items []MatchResponse `json:"items"`
}

type EndMatchRequest struct {
	TargetID int64  `json:"target_id"`
	State    string `json:"state"`
}

type BlockRequest struct {
	TargetID int64  `json:"target_id"`
	Reason   string `json:"reason"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
