// Package api implements the HTTP handlers behind the operator API: the
// invocation trigger, config and schedule CRUD, article/history browsing,
// the Gemini relay and keyword trend scoring.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/runner"
	"autopress/publisher/internal/store"
	"autopress/publisher/internal/trends"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Trigger runs one pipeline invocation. Satisfied by *runner.Runner.
type Trigger interface {
	Run(ctx context.Context, force bool) (*runner.Report, error)
}

// TrendScorer scores keywords against news headlines. Satisfied by
// *trends.Scorer.
type TrendScorer interface {
	Score(ctx context.Context, keywords []string) ([]trends.Trend, error)
}

// Handler holds the dependencies shared by all endpoints. Loggers come
// from the request context via hlog.
type Handler struct {
	store   *store.Store
	trigger Trigger
	scorer  TrendScorer

	// Relay plumbing: outbound client and provider base URL, the latter
	// overridable in tests.
	relayClient   *http.Client
	geminiBaseURL string
}

// NewHandler creates a handler instance.
func NewHandler(st *store.Store, trigger Trigger, scorer TrendScorer, outboundTimeout time.Duration) *Handler {
	return &Handler{
		store:         st,
		trigger:       trigger,
		scorer:        scorer,
		relayClient:   &http.Client{Timeout: outboundTimeout},
		geminiBaseURL: "",
	}
}

// respondJSON marshals v and writes it with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	log := hlog.FromRequest(r)

	jsonBytes, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonBytes); err != nil {
		log.Error().Err(err).Msg("Error writing JSON response body to client")
	}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, r, status, errorResponse{Error: msg})
}

// notFoundOr500 maps store.ErrNotFound to 404 and anything else to 500.
func notFoundOr500(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("Store operation failed")
	respondError(w, r, http.StatusInternalServerError, "internal server error")
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
