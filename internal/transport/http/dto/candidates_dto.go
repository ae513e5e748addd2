package dto

type CandidateResponse struct {
	UserID      int64              `json:"user_id"`
	DisplayName string             `json:"display_name"`
	Age         int                `json:"age"`
	Score       float64            `json:"score"`
	Breakdown   map[string]float64 `json:"breakdown"`
	Highlights  []string           `json:"highlights"`
}

type CandidatesResponse struct {
	Items []CandidateResponse `json:"items"`
}
