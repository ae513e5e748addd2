package dto

import "time"

type SessionCounts struct {
	Likes      int `json:"likes"`
	SuperLikes int `json:"superlikes"`
	Passes     int `json:"passes"`
	Matches    int `json:"matches"`
}

type SessionStatsResponse struct {
	Open            bool          `json:"open"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	Counts          SessionCounts `json:"counts"`
	SwipesPerMinute float64       `json:"swipes_per_minute"`
}

type SessionCloseResponse struct {
	OK     bool `json:"ok"`
	Closed bool `json:"closed"`
}
