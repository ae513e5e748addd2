package model

import (
	"time"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
)

// Swipe is immutable once recorded: one row per ordered (actor, target) pair.
type Swipe struct {
	ActorUserID  int64                `json:"actor_user_id"`
	TargetUserID int64                `json:"target_user_id"`
	Direction    enums.SwipeDirection `json:"direction"`
	CreatedAt    time.Time            `json:"created_at"`
}
