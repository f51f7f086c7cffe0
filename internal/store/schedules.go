package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autopress/publisher/internal/models"
)

// ActiveSchedules returns all schedules with the active flag set, oldest
// first so execution order is stable across invocations.
func (s *Store) ActiveSchedules(ctx context.Context) ([]models.ScheduleSetting, error) {
	var schedules []models.ScheduleSetting
	err := s.db.SelectContext(ctx, &schedules,
		`SELECT * FROM schedule_settings WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active schedules: %w", err)
	}
	return schedules, nil
}

// ScheduleByID fetches a single schedule.
func (s *Store) ScheduleByID(ctx context.Context, id int64) (*models.ScheduleSetting, error) {
	var sched models.ScheduleSetting
	err := s.db.GetContext(ctx, &sched, `SELECT * FROM schedule_settings WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query schedule %d: %w", id, err)
	}
	return &sched, nil
}

// ListSchedules returns all schedules.
func (s *Store) ListSchedules(ctx context.Context) ([]models.ScheduleSetting, error) {
	var schedules []models.ScheduleSetting
	err := s.db.SelectContext(ctx, &schedules, `SELECT * FROM schedule_settings ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// InsertSchedule creates a new schedule.
func (s *Store) InsertSchedule(ctx context.Context, sched *models.ScheduleSetting) error {
	now := time.Now()
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO schedule_settings (wordpress_config_id, is_active, frequency, time, target_keywords, publish_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.WordPressConfigID, sched.IsActive, sched.Frequency, sched.Time,
		sched.TargetKeywords, sched.PublishStatus, sched.CreatedAt, sched.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	sched.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert schedule id: %w", err)
	}
	return nil
}

// UpdateSchedule updates an existing schedule.
func (s *Store) UpdateSchedule(ctx context.Context, sched *models.ScheduleSetting) error {
	sched.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE schedule_settings
		SET wordpress_config_id = ?, is_active = ?, frequency = ?, time = ?, target_keywords = ?, publish_status = ?, updated_at = ?
		WHERE id = ?`,
		sched.WordPressConfigID, sched.IsActive, sched.Frequency, sched.Time,
		sched.TargetKeywords, sched.PublishStatus, sched.UpdatedAt, sched.ID)
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", sched.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %d: %w", sched.ID, ErrNotFound)
	}
	return nil
}

// DeleteSchedule removes a schedule.
func (s *Store) DeleteSchedule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedule_settings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	return nil
}
