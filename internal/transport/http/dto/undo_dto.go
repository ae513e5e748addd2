package dto

type CanUndoResponse struct {
	CanUndo bool `json:"can_undo"`
}

type UndoResponse struct {
	OK           bool   `json:"ok"`
	Outcome      string `json:"outcome"`
	TargetUserID int64  `json:"target_user_id,omitempty"`
}
