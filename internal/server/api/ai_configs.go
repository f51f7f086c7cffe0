package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/models"
)

// aiConfigRequest accepts the API key on write; responses never include it.
type aiConfigRequest struct {
	Provider    string  `json:"provider"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// ListAIConfigs handles GET /v1/ai-configs, newest first. The first entry
// is the active configuration.
func (h *Handler) ListAIConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.ListAIConfigs(r.Context())
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	if configs == nil {
		configs = []models.AIConfig{}
	}
	respondJSON(w, r, http.StatusOK, configs)
}

// CreateAIConfig handles POST /v1/ai-configs. Configs are append-only:
// creating one makes it active, older rows stay for the audit trail.
func (h *Handler) CreateAIConfig(w http.ResponseWriter, r *http.Request) {
	var req aiConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch models.Provider(req.Provider) {
	case models.ProviderOpenAI, models.ProviderGemini, models.ProviderClaude:
	default:
		respondError(w, r, http.StatusBadRequest, "provider must be one of openai, gemini, claude")
		return
	}
	if req.APIKey == "" {
		respondError(w, r, http.StatusBadRequest, "api_key is required")
		return
	}
	if req.Model == "" {
		respondError(w, r, http.StatusBadRequest, "model is required")
		return
	}

	cfg := models.NewAIConfig()
	cfg.Provider = models.Provider(req.Provider)
	cfg.APIKey = req.APIKey
	cfg.Model = req.Model
	if req.Temperature > 0 {
		cfg.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		cfg.MaxTokens = req.MaxTokens
	}

	if err := h.store.InsertAIConfig(r.Context(), cfg); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().
		Int64("id", cfg.ID).
		Str("provider", string(cfg.Provider)).
		Str("model", cfg.Model).
		Msg("AI config created")
	respondJSON(w, r, http.StatusCreated, cfg)
}
