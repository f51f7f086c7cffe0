package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/generate"
)

// relayRequest is the browser-facing shape. The Generative Language API
// rejects cross-origin calls, so UI clients post here and the server
// forwards the request.
type relayRequest struct {
	Prompt      string  `json:"prompt"`
	APIKey      string  `json:"apiKey"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// GeminiRelay handles POST /v1/gemini-relay. The provider's JSON response
// is returned verbatim, whatever its shape; the relay adds no
// interpretation beyond failing with {"error": ...} and 500.
func (h *Handler) GeminiRelay(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req relayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" || req.APIKey == "" || req.Model == "" {
		respondError(w, r, http.StatusBadRequest, "prompt, apiKey and model are required")
		return
	}

	body, err := generate.BuildGeminiRequest(req.Prompt, req.Temperature, req.MaxTokens)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build relay request")
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	baseURL := h.geminiBaseURL
	if baseURL == "" {
		baseURL = generate.DefaultGeminiBaseURL()
	}

	outbound, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		generate.GeminiEndpoint(baseURL, req.Model, req.APIKey), bytes.NewReader(body))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	outbound.Header.Set("Content-Type", "application/json")

	resp, err := h.relayClient.Do(outbound)
	if err != nil {
		log.Error().Err(err).Str("model", req.Model).Msg("Relay call failed")
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("Relay response forwarded")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(raw); err != nil {
		log.Error().Err(err).Msg("Error writing relay response")
	}
}
