package handlers

import (
	"errors"
	"net/http"

	sessionsvc "github.com/TomShtern/Date-Program-sub005/internal/services/sessions"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub005/internal/transport/http/errors"
)

type SessionHandler struct {
	service *sessionsvc.Service
}

func NewSessionHandler(service *sessionsvc.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SESSION_SERVICE_UNAVAILABLE", "session service is unavailable")
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sessionsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid session request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load session stats")
		return
	}

	response := dto.SessionStatsResponse{
		Open:            stats.Open,
		Counts:          mapSessionCounts(stats.Session),
		SwipesPerMinute: stats.SwipesPerMinute,
	}
	if stats.Open {
		startedAt := stats.Session.StartedAt
		response.StartedAt = &startedAt
	}

	httperrors.Write(w, http.StatusOK, response)
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SESSION_SERVICE_UNAVAILABLE", "session service is unavailable")
		return
	}

	closed, err := h.service.Close(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sessionsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid session request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to close session")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SessionCloseResponse{OK: true, Closed: closed})
}
