package handlers

import (
	"errors"
	"net/http"

	undosvc "github.com/TomShtern/Date-Program-sub005/internal/services/undo"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub005/internal/transport/http/errors"
)

type UndoHandler struct {
	service *undosvc.Service
}

func NewUndoHandler(service *undosvc.Service) *UndoHandler {
	return &UndoHandler{service: service}
}

func (h *UndoHandler) CanUndo(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "UNDO_SERVICE_UNAVAILABLE", "undo service is unavailable")
		return
	}

	canUndo, err := h.service.CanUndo(r.Context(), userID)
	if err != nil {
		if errors.Is(err, undosvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid undo request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to check undo availability")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CanUndoResponse{CanUndo: canUndo})
}

func (h *UndoHandler) Undo(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "UNDO_SERVICE_UNAVAILABLE", "undo service is unavailable")
		return
	}

	result, err := h.service.Undo(r.Context(), userID)
	if err != nil {
		if errors.Is(err, undosvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid undo request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to undo swipe")
		return
	}

	response := dto.UndoResponse{
		OK:      result.Outcome == undosvc.OutcomeUndone,
		Outcome: string(result.Outcome),
	}
	if result.Outcome == undosvc.OutcomeUndone {
		response.TargetUserID = result.Swipe.TargetUserID
	}

	httperrors.Write(w, http.StatusOK, response)
}
