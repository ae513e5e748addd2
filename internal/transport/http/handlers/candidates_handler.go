package handlers

import (
	"errors"
	"net/http"

	"github.com/TomShtern/Date-Program-sub005/internal/services/discovery"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub005/internal/transport/http/errors"
)

type CandidatesHandler struct {
	service      *discovery.Service
	defaultLimit int
}

func NewCandidatesHandler(service *discovery.Service, defaultLimit int) *CandidatesHandler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &CandidatesHandler{service: service, defaultLimit: defaultLimit}
}

func (h *CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DISCOVERY_SERVICE_UNAVAILABLE", "discovery service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), h.defaultLimit)
	candidates, err := h.service.FindCandidates(r.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, discovery.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid candidates request")
		case errors.Is(err, discovery.ErrNotFound):
			writeNotFound(w, "SEEKER_NOT_FOUND", "seeker profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		}
		return
	}

	items := make([]dto.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapCandidate(candidate))
	}

	httperrors.Write(w, http.StatusOK, dto.CandidatesResponse{Items: items})
}

func mapCandidate(candidate discovery.Candidate) dto.CandidateResponse {
	breakdown := make(map[string]float64, len(candidate.Score.Breakdown))
	for factor, value := range candidate.Score.Breakdown {
		breakdown[string(factor)] = value
	}

	return dto.CandidateResponse{
		UserID:      candidate.Profile.UserID,
		DisplayName: candidate.Profile.DisplayName,
		Age:         candidate.Profile.Age,
		Score:       candidate.Score.Total,
		Breakdown:   breakdown,
		Highlights:  candidate.Score.Highlights,
	}
}
