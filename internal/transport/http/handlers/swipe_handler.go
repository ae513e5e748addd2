package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	swipesvc "github.com/TomShtern/Date-Program-sub005/internal/services/swipes"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub005/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 || strings.TrimSpace(req.Direction) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and direction are required")
		return
	}

	direction := enums.SwipeDirection(strings.ToUpper(strings.TrimSpace(req.Direction)))
	result, err := h.service.RecordSwipe(r.Context(), userID, req.TargetID, direction)
	if err != nil {
		var tooFast swipesvc.TooFastError
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrUnsupportedDirection):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported swipe direction")
		case errors.As(err, &tooFast):
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many swipes, slow down",
				RetryAfterSec: tooFast.RetryAfterSec,
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	response := dto.SwipeResponse{
		OK:      true,
		Outcome: string(result.Outcome),
		Session: mapSessionCounts(result.Session),
	}
	if result.Match != nil {
		match := mapMatch(*result.Match, userID)
		response.Match = &match
	}

	httperrors.Write(w, http.StatusOK, response)
}

func mapSessionCounts(session model.Session) dto.SessionCounts {
	return dto.SessionCounts{
		Likes:      session.LikeCount,
		SuperLikes: session.SuperLikeCount,
		Passes:     session.PassCount,
		Matches:    session.MatchCount,
	}
}

func mapMatch(match model.Match, viewerID int64) dto.MatchResponse {
	return dto.MatchResponse{
		PairID:      match.PairID,
		OtherUserID: match.Other(viewerID),
		State:       string(match.State),
		CreatedAt:   match.CreatedAt,
		EndedAt:     match.EndedAt,
		EndedBy:     match.EndedBy,
	}
}
