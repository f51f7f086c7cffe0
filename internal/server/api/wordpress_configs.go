package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/models"
	"autopress/publisher/internal/wordpress"
)

// wordpressConfigRequest is the write shape. The application password is
// accepted here but never echoed back (the model hides it from JSON).
type wordpressConfigRequest struct {
	Name                string `json:"name"`
	URL                 string `json:"url"`
	Username            string `json:"username"`
	ApplicationPassword string `json:"application_password"`
	Category            string `json:"category"`
	IsActive            *bool  `json:"is_active"`
}

func (req *wordpressConfigRequest) validate() string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "name is required"
	case strings.TrimSpace(req.URL) == "":
		return "url is required"
	case !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://"):
		return "url must start with http:// or https://"
	case strings.TrimSpace(req.Username) == "":
		return "username is required"
	}
	return ""
}

// ListWordPressConfigs handles GET /v1/wordpress-configs.
func (h *Handler) ListWordPressConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.store.ListWordPressConfigs(r.Context())
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	if configs == nil {
		configs = []models.WordPressConfig{}
	}
	respondJSON(w, r, http.StatusOK, configs)
}

// GetWordPressConfig handles GET /v1/wordpress-configs/{id}.
func (h *Handler) GetWordPressConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid config id")
		return
	}
	cfg, err := h.store.WordPressConfigByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cfg)
}

// CreateWordPressConfig handles POST /v1/wordpress-configs.
func (h *Handler) CreateWordPressConfig(w http.ResponseWriter, r *http.Request) {
	var req wordpressConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}
	if req.ApplicationPassword == "" {
		respondError(w, r, http.StatusBadRequest, "application_password is required")
		return
	}

	cfg := models.NewWordPressConfig()
	cfg.Name = req.Name
	cfg.URL = strings.TrimRight(req.URL, "/")
	cfg.Username = req.Username
	cfg.ApplicationPassword = req.ApplicationPassword
	cfg.Category = req.Category
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	if err := h.store.InsertWordPressConfig(r.Context(), cfg); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Int64("id", cfg.ID).Str("name", cfg.Name).Msg("WordPress config created")
	respondJSON(w, r, http.StatusCreated, cfg)
}

// UpdateWordPressConfig handles PUT /v1/wordpress-configs/{id}. An empty
// application_password keeps the stored one.
func (h *Handler) UpdateWordPressConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid config id")
		return
	}

	cfg, err := h.store.WordPressConfigByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}

	var req wordpressConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}

	cfg.Name = req.Name
	cfg.URL = strings.TrimRight(req.URL, "/")
	cfg.Username = req.Username
	if req.ApplicationPassword != "" {
		cfg.ApplicationPassword = req.ApplicationPassword
	}
	cfg.Category = req.Category
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	cfg.UpdatedAt = time.Now()

	if err := h.store.UpdateWordPressConfig(r.Context(), cfg); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, cfg)
}

// DeleteWordPressConfig handles DELETE /v1/wordpress-configs/{id}.
func (h *Handler) DeleteWordPressConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid config id")
		return
	}
	if err := h.store.DeleteWordPressConfig(r.Context(), id); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSitePosts handles GET /v1/wordpress-configs/{id}/posts: a
// passthrough to the target site so operators can inspect what was
// published.
func (h *Handler) ListSitePosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid config id")
		return
	}
	cfg, err := h.store.WordPressConfigByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, r, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed <= 0 {
			respondError(w, r, http.StatusBadRequest, "invalid 'page' parameter")
			return
		}
		page = parsed
	}

	client := wordpress.NewClient(cfg, h.relayClient.Timeout)
	posts, err := client.ListPosts(r.Context(), page, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("config_id", id).Msg("Failed to list site posts")
		respondError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, posts)
}

// DeleteSitePost handles DELETE /v1/wordpress-configs/{id}/posts/{postID}.
func (h *Handler) DeleteSitePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid config id")
		return
	}
	postID, err := strconv.ParseInt(r.PathValue("postID"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid post id")
		return
	}
	cfg, err := h.store.WordPressConfigByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}

	client := wordpress.NewClient(cfg, h.relayClient.Timeout)
	if err := client.DeletePost(r.Context(), postID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("post_id", postID).Msg("Failed to delete site post")
		respondError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
