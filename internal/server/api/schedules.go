package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/models"
	"autopress/publisher/internal/schedule"
)

type scheduleRequest struct {
	WordPressConfigID int64    `json:"wordpress_config_id"`
	IsActive          *bool    `json:"is_active"`
	Frequency         string   `json:"frequency"`
	Time              string   `json:"time"`
	TargetKeywords    []string `json:"target_keywords"`
	PublishStatus     string   `json:"publish_status"`
}

func (req *scheduleRequest) validate() string {
	if req.WordPressConfigID <= 0 {
		return "wordpress_config_id is required"
	}
	switch models.Frequency(req.Frequency) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly:
	default:
		return "frequency must be one of daily, weekly, biweekly, monthly"
	}
	if !schedule.ValidWallClock(req.Time) {
		return "time must be HH:MM (24-hour)"
	}
	if len(req.TargetKeywords) == 0 {
		return "target_keywords must not be empty"
	}
	switch req.PublishStatus {
	case models.PublishStatusPublish, models.PublishStatusDraft:
	default:
		return "publish_status must be publish or draft"
	}
	return ""
}

// ListSchedules handles GET /v1/schedules.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.store.ListSchedules(r.Context())
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	if schedules == nil {
		schedules = []models.ScheduleSetting{}
	}
	respondJSON(w, r, http.StatusOK, schedules)
}

// GetSchedule handles GET /v1/schedules/{id}.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid schedule id")
		return
	}
	sched, err := h.store.ScheduleByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sched)
}

// CreateSchedule handles POST /v1/schedules. The referenced WordPress
// config must exist; dangling schedules would fail every invocation.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}
	if _, err := h.store.WordPressConfigByID(r.Context(), req.WordPressConfigID); err != nil {
		notFoundOr500(w, r, err)
		return
	}

	sched := models.NewScheduleSetting()
	sched.WordPressConfigID = req.WordPressConfigID
	sched.Frequency = models.Frequency(req.Frequency)
	sched.Time = req.Time
	sched.TargetKeywords = req.TargetKeywords
	sched.PublishStatus = req.PublishStatus
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}

	if err := h.store.InsertSchedule(r.Context(), sched); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Int64("id", sched.ID).Str("time", sched.Time).Msg("Schedule created")
	respondJSON(w, r, http.StatusCreated, sched)
}

// UpdateSchedule handles PUT /v1/schedules/{id}.
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid schedule id")
		return
	}

	sched, err := h.store.ScheduleByID(r.Context(), id)
	if err != nil {
		notFoundOr500(w, r, err)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}
	if req.WordPressConfigID != sched.WordPressConfigID {
		if _, err := h.store.WordPressConfigByID(r.Context(), req.WordPressConfigID); err != nil {
			notFoundOr500(w, r, err)
			return
		}
	}

	sched.WordPressConfigID = req.WordPressConfigID
	sched.Frequency = models.Frequency(req.Frequency)
	sched.Time = req.Time
	sched.TargetKeywords = req.TargetKeywords
	sched.PublishStatus = req.PublishStatus
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}
	sched.UpdatedAt = time.Now()

	if err := h.store.UpdateSchedule(r.Context(), sched); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sched)
}

// DeleteSchedule handles DELETE /v1/schedules/{id}.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid schedule id")
		return
	}
	if err := h.store.DeleteSchedule(r.Context(), id); err != nil {
		notFoundOr500(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
