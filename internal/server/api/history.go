package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/models"
)

type historyResponse struct {
	History []models.ExecutionHistory `json:"history"`
}

// ListHistory handles GET /v1/history. `schedule_id` narrows to one
// schedule (0 means all), `limit` caps the page, newest rows first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	query := r.URL.Query()

	var scheduleID int64
	if s := query.Get("schedule_id"); s != "" {
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(w, r, http.StatusBadRequest, "invalid 'schedule_id' parameter")
			return
		}
		scheduleID = parsed
	}

	limit := defaultLimit
	if s := query.Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed <= 0 || parsed > maxLimit {
			respondError(w, r, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	history, err := h.store.ListHistory(r.Context(), scheduleID, limit)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching execution history")
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if history == nil {
		history = []models.ExecutionHistory{}
	}
	respondJSON(w, r, http.StatusOK, historyResponse{History: history})
}
