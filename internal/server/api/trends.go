package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/trends"
)

type trendsResponse struct {
	Trends []trends.Trend `json:"trends"`
}

// KeywordTrends handles GET /v1/keyword-trends. `keywords` is a
// comma-separated candidate list; when omitted, the keyword pools of all
// active schedules are scored instead.
func (h *Handler) KeywordTrends(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var keywords []string
	if raw := r.URL.Query().Get("keywords"); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	} else {
		schedules, err := h.store.ActiveSchedules(r.Context())
		if err != nil {
			notFoundOr500(w, r, err)
			return
		}
		seen := make(map[string]bool)
		for _, sched := range schedules {
			for _, kw := range sched.TargetKeywords {
				if !seen[kw] {
					seen[kw] = true
					keywords = append(keywords, kw)
				}
			}
		}
	}

	if len(keywords) == 0 {
		respondError(w, r, http.StatusBadRequest, "no keywords to score")
		return
	}

	scored, err := h.scorer.Score(r.Context(), keywords)
	if err != nil {
		log.Error().Err(err).Msg("Trend scoring failed")
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if scored == nil {
		scored = []trends.Trend{}
	}
	respondJSON(w, r, http.StatusOK, trendsResponse{Trends: scored})
}
