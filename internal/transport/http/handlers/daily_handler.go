package handlers

import (
	"errors"
	"net/http"

	dailysvc "github.com/TomShtern/Date-Program-sub005/internal/services/daily"
	"github.com/TomShtern/Date-Program-sub005/internal/services/discovery"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub005/internal/transport/http/errors"
)

type DailyHandler struct {
	service *dailysvc.Service
}

func NewDailyHandler(service *dailysvc.Service) *DailyHandler {
	return &DailyHandler{service: service}
}

func (h *DailyHandler) Pick(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DAILY_SERVICE_UNAVAILABLE", "daily pick service is unavailable")
		return
	}

	result, err := h.service.DailyPick(r.Context(), userID)
	if err != nil {
		if errors.Is(err, dailysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid daily pick request")
			return
		}
		if errors.Is(err, discovery.ErrNotFound) {
			writeNotFound(w, "SEEKER_NOT_FOUND", "seeker profile not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load daily pick")
		return
	}

	response := dto.DailyPickResponse{
		Available: result.Available,
		DayKey:    result.DayKey,
		Viewed:    result.Viewed,
	}
	if result.Available {
		candidate := mapCandidate(result.Candidate)
		response.Candidate = &candidate
	}

	httperrors.Write(w, http.StatusOK, response)
}

func (h *DailyHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DAILY_SERVICE_UNAVAILABLE", "daily pick service is unavailable")
		return
	}

	marked, err := h.service.MarkViewed(r.Context(), userID)
	if err != nil {
		if errors.Is(err, dailysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to mark daily pick as viewed")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DailyViewedResponse{OK: true, Marked: marked})
}
