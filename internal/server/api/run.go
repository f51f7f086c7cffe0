package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/runner"
)

type runRequest struct {
	ForceExecute bool `json:"forceExecute"`
}

type runResponse struct {
	Success   bool            `json:"success"`
	Executed  int             `json:"executed"`
	Results   []runner.Result `json:"results"`
	Timestamp time.Time       `json:"timestamp"`
}

// TriggerRun handles POST /v1/run: one pipeline invocation. The body is an
// optional {"forceExecute": bool}; an empty body means a normal due-time
// gated run.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req runRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	log.Info().Bool("force", req.ForceExecute).Msg("Run triggered via API")

	report, err := h.trigger.Run(r.Context(), req.ForceExecute)
	if err != nil {
		log.Error().Err(err).Msg("Invocation failed")
		status := http.StatusInternalServerError
		if errors.Is(err, runner.ErrNoActiveAIConfig) {
			// No active AI config is an operator setup problem, not a
			// server fault.
			status = http.StatusConflict
		}
		respondJSON(w, r, status, struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: err.Error()})
		return
	}

	results := report.Results
	if results == nil {
		results = []runner.Result{}
	}
	respondJSON(w, r, http.StatusOK, runResponse{
		Success:   true,
		Executed:  report.Executed,
		Results:   results,
		Timestamp: report.Timestamp,
	})
}
