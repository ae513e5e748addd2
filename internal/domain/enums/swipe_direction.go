package enums

type SwipeDirection string

const (
	SwipeDirectionLike      SwipeDirection = "LIKE"
	SwipeDirectionSuperLike SwipeDirection = "SUPERLIKE"
	SwipeDirectionPass      SwipeDirection = "PASS"
)

// Positive reports whether the direction expresses interest and can
// participate in match creation.
func (d SwipeDirection) Positive() bool {
	return d == SwipeDirectionLike || d == SwipeDirectionSuperLike
}

func (d SwipeDirection) Valid() bool {
	switch d {
	case SwipeDirectionLike, SwipeDirectionSuperLike, SwipeDirectionPass:
		return true
	default:
		return false
	}
}
