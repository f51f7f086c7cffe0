package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/models"
	"autopress/publisher/internal/server/pagination"
)

type articlesResponse struct {
	Articles   []models.Article `json:"articles"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// ListArticles handles GET /v1/articles with cursor pagination. Accepts
// `limit`, and either `cursor` (opaque, from a previous page) or `since`
// (RFC3339); with neither, listing starts from the oldest article.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	query := r.URL.Query()
	limit := defaultLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > maxLimit {
			respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("invalid 'limit' parameter: must be between 1 and %d", maxLimit))
			return
		}
		limit = parsed
	}

	var since, cursorTimestamp *time.Time
	var cursorID *int64

	if cursorStr := query.Get("cursor"); cursorStr != "" {
		cursor, err := pagination.Decode(cursorStr)
		if err != nil {
			log.Warn().Err(err).Str("cursor", cursorStr).Msg("Invalid 'cursor' parameter")
			respondError(w, r, http.StatusBadRequest, "invalid 'cursor' parameter")
			return
		}
		cursorTimestamp = &cursor.CreatedAt
		cursorID = &cursor.ID
	} else if sinceStr := query.Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			respondError(w, r, http.StatusBadRequest,
				"invalid 'since' parameter: use RFC3339 format (e.g., 2026-03-28T15:00:00Z)")
			return
		}
		utc := parsed.UTC()
		since = &utc
	}

	// One extra row decides whether a next page exists.
	articles, err := h.store.ListArticles(r.Context(), limit+1, since, cursorTimestamp, cursorID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching articles")
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	var nextCursor *string
	if len(articles) > limit {
		articles = articles[:limit]
		cursor := pagination.FromArticle(articles[len(articles)-1]).Encode()
		nextCursor = &cursor
	}
	if articles == nil {
		articles = []models.Article{}
	}

	respondJSON(w, r, http.StatusOK, articlesResponse{Articles: articles, NextCursor: nextCursor})
}

// GetArticle handles GET /v1/articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid article id")
		return
	}

	article, err := h.store.ArticleByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, article)
}
