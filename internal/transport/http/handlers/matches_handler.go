package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TomShtern/Date-Program-sub005/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub005/internal/domain/model"
	matchsvc "github.com/TomShtern/Date-Program-sub005/internal/services/matches"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub005/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchsvc.Service
}

func NewMatchesHandler(service *matchsvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

// List returns the caller's active matches, or the full history including
// ended ones when ?all=true.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	var (
		matches []model.Match
		err     error
	)
	if r.URL.Query().Get("all") == "true" {
		matches, err = h.service.ListAll(r.Context(), userID, limit)
	} else {
		matches, err = h.service.ListActive(r.Context(), userID, limit)
	}
	if err != nil {
		if errors.Is(err, matchsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}

	items := make([]dto.MatchResponse, 0, len(matches))
	for _, match := range matches {
		items = append(items, mapMatch(match, userID))
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

func (h *MatchesHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	var req dto.EndMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	state := enums.MatchState(strings.ToLower(strings.TrimSpace(req.State)))
	match, err := h.service.End(r.Context(), userID, req.TargetID, state)
	if err != nil {
		switch {
		case errors.Is(err, matchsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid end match request")
		case errors.Is(err, matchsvc.ErrInvalidState):
			writeBadRequest(w, "INVALID_STATE", "requested state cannot end a match")
		case errors.Is(err, matchsvc.ErrNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "no match with that user")
		case errors.Is(err, matchsvc.ErrAlreadyEnded):
			httperrors.Write(w, http.StatusConflict, httperrors.APIError{
				Code:    "MATCH_ALREADY_ENDED",
				Message: "match is already ended",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to end match")
		}
		return
	}

	response := mapMatch(match, userID)
	httperrors.Write(w, http.StatusOK, response)
}

func (h *MatchesHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	var req dto.BlockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Block(r.Context(), userID, req.TargetID, strings.TrimSpace(req.Reason)); err != nil {
		if errors.Is(err, matchsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid block request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to block user")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
