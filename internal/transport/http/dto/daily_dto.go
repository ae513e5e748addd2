package dto

type DailyPickResponse struct {
	Available bool               `json:"available"`
	DayKey    string             `json:"day_key"`
	Viewed    bool               `json:"viewed"`
	Candidate *CandidateResponse `json:"candidate,omitempty"`
}

type DailyViewedResponse struct {
	OK     bool `json:"ok"`
	Marked bool `json:"marked"`
}
