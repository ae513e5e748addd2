package dto

type SwipeRequest struct {
	TargetID  int64  `json:"target_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	OK      bool           `json:"ok"`
	Outcome string         `json:"outcome"`
	Match   *MatchResponse `json:"match,omitempty"`
	Session SessionCounts  `json:"session"`
}
