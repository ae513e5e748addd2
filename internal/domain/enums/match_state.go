package enums

type MatchState string

const (
	MatchStateActive       MatchState = "active"
	MatchStateFriends      MatchState = "friends"
	MatchStateUnmatched    MatchState = "unmatched"
	MatchStateGracefulExit MatchState = "graceful_exit"
	MatchStateBlocked      MatchState = "blocked"
)

func (s MatchState) Valid() bool {
	switch s {
	case MatchStateActive, MatchStateFriends, MatchStateUnmatched, MatchStateGracefulExit, MatchStateBlocked:
		return true
	default:
		return false
	}
}

// Terminal reports whether the state ends the match. Every state except
// active is terminal and never transitions back.
func (s MatchState) Terminal() bool {
	return s.Valid() && s != MatchStateActive
}

// CanTransition reports whether a match in state s may move to next.
// The only legal move is active -> any terminal state.
func (s MatchState) CanTransition(next MatchState) bool {
	return s == MatchStateActive && next.Terminal()
}
