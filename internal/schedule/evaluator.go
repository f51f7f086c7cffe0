// Package schedule holds the pure decision logic of the pipeline: whether
// a schedule is due at a given instant, and which keyword to use next.
// Neither function keeps state; both are driven entirely by their inputs
// so the external trigger (cron, HTTP) stays the only source of "now".
package schedule

import (
	"errors"
	"fmt"
	"time"

	"autopress/publisher/internal/models"
)

// ErrInvalidScheduleTime is returned when a schedule's configured time is
// not a valid "HH:MM" wall-clock string.
var ErrInvalidScheduleTime = errors.New("invalid schedule time")

// DefaultWindow is the half-width of the due-time window when none is
// configured.
const DefaultWindow = 5 * time.Minute

// Evaluator decides whether schedules are due. The window half-width is a
// parameter rather than a constant because deployments disagree on how
// tight the firing window should be.
type Evaluator struct {
	location *time.Location
	window   time.Duration
}

// NewEvaluator creates an evaluator for the given IANA timezone name. A
// non-positive window falls back to DefaultWindow.
func NewEvaluator(timezone string, window time.Duration) (*Evaluator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Evaluator{location: loc, window: window}, nil
}

// IsDue reports whether the schedule should fire at now.
//
// Two gates apply in order: first the wall-clock window (now must fall
// within ±window of the configured "HH:MM" in the evaluator's timezone),
// then the frequency gate (enough hours since lastExecutedAt, nil meaning
// the schedule has never run). force bypasses both gates, for manual
// triggers.
func (e *Evaluator) IsDue(sched models.ScheduleSetting, now time.Time, lastExecutedAt *time.Time, force bool) (bool, error) {
	if force {
		return true, nil
	}

	scheduleMinutes, err := parseWallClock(sched.Time)
	if err != nil {
		return false, err
	}

	local := now.In(e.location)
	currentSecs := local.Hour()*3600 + local.Minute()*60 + local.Second()

	diff := currentSecs - scheduleMinutes*60
	if diff < 0 {
		diff = -diff
	}
	if time.Duration(diff)*time.Second > e.window {
		return false, nil
	}

	if lastExecutedAt == nil {
		return true, nil
	}

	hoursSince := now.Sub(*lastExecutedAt).Hours()
	return hoursSince >= sched.Frequency.MinHoursElapsed(), nil
}

// ValidWallClock reports whether s is a valid "HH:MM" schedule time.
func ValidWallClock(s string) bool {
	_, err := parseWallClock(s)
	return err == nil
}

// parseWallClock converts "HH:MM" into minutes since midnight.
func parseWallClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScheduleTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
