package model

import "time"

// DailyPick is the cached recommendation for one seeker on one UTC day.
type DailyPick struct {
	SeekerUserID    int64
	DayKey          string
	CandidateUserID int64
	CreatedAt       time.Time
	ViewedAt        *time.Time
}

func (p DailyPick) Viewed() bool {
	return p.ViewedAt != nil
}
