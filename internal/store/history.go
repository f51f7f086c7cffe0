package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autopress/publisher/internal/models"
)

// AppendHistory records one execution attempt. History is append-only and
// is never pruned, so it must not be relied on for bounded growth.
func (s *Store) AppendHistory(ctx context.Context, h *models.ExecutionHistory) error {
	if h.ExecutedAt.IsZero() {
		h.ExecutedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO execution_history (schedule_id, wordpress_config_id, executed_at, keyword_used, article_title, wordpress_post_id, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ScheduleID, h.WordPressConfigID, h.ExecutedAt, h.KeywordUsed,
		h.ArticleTitle, h.WordPressPostID, h.Status, h.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append execution history: %w", err)
	}
	h.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append execution history id: %w", err)
	}
	return nil
}

// UsedKeywords returns the distinct keywords already consumed by
// successful runs of a schedule.
func (s *Store) UsedKeywords(ctx context.Context, scheduleID int64) ([]string, error) {
	var keywords []string
	err := s.db.SelectContext(ctx, &keywords, `
		SELECT DISTINCT keyword_used FROM execution_history
		WHERE schedule_id = ? AND status = ? AND keyword_used != ''`,
		scheduleID, models.ExecutionStatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("query used keywords for schedule %d: %w", scheduleID, err)
	}
	return keywords, nil
}

// LastSuccessfulExecution returns the timestamp of the schedule's most
// recent successful run, or nil when it has never run. Errored attempts do
// not advance the clock, so a failed schedule may retry within the same
// due-time window.
func (s *Store) LastSuccessfulExecution(ctx context.Context, scheduleID int64) (*time.Time, error) {
	var executedAt time.Time
	err := s.db.GetContext(ctx, &executedAt, `
		SELECT executed_at FROM execution_history
		WHERE schedule_id = ? AND status = ?
		ORDER BY executed_at DESC LIMIT 1`,
		scheduleID, models.ExecutionStatusSuccess)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query last execution for schedule %d: %w", scheduleID, err)
	}
	return &executedAt, nil
}

// ListHistory returns execution history rows, newest first. A zero
// scheduleID returns history across all schedules.
func (s *Store) ListHistory(ctx context.Context, scheduleID int64, limit int) ([]models.ExecutionHistory, error) {
	var rows []models.ExecutionHistory
	var err error
	if scheduleID > 0 {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT * FROM execution_history WHERE schedule_id = ?
			ORDER BY executed_at DESC, id DESC LIMIT ?`, scheduleID, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT * FROM execution_history
			ORDER BY executed_at DESC, id DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list execution history: %w", err)
	}
	return rows, nil
}
