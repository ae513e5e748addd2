package rules

import (
	"strconv"

	"github.com/google/uuid"
)

// Namespace for deterministic match ids. Fixed forever: changing it would
// re-key every stored match.
var matchNamespace = uuid.MustParse("5ba7b811-9dad-11d1-80b4-00c04fd430c8")

// NormalizePair orders a participant pair so the smaller id comes first.
func NormalizePair(userID, targetID int64) (int64, int64) {
	if userID > targetID {
		return targetID, userID
	}
	return userID, targetID
}

// PairID derives the match id purely from the unordered participant pair:
// PairID(a, b) == PairID(b, a) for every pair.
func PairID(userID, targetID int64) string {
	a, b := NormalizePair(userID, targetID)
	key := strconv.FormatInt(a, 10) + ":" + strconv.FormatInt(b, 10)
	return uuid.NewSHA1(matchNamespace, []byte(key)).String()
}
