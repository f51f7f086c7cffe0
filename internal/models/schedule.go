package models

import "time"

// Frequency is how often a schedule is allowed to fire.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// MinHoursElapsed returns the minimum number of hours that must have
// passed since the last execution before the schedule may fire again.
// Each threshold sits slightly below the nominal interval to tolerate
// clock and invocation jitter. Unknown frequencies gate as daily.
func (f Frequency) MinHoursElapsed() float64 {
	switch f {
	case FrequencyWeekly:
		return 156 // 24 * 6.5
	case FrequencyBiweekly:
		return 312 // 24 * 13
	case FrequencyMonthly:
		return 696 // 24 * 29
	default:
		return 23
	}
}

// PublishStatus values accepted by the WordPress posts endpoint.
const (
	PublishStatusPublish = "publish"
	PublishStatusDraft   = "draft"
)

// ScheduleSetting represents a row in the 'schedule_settings' table: the
// per-site recipe for when to generate and publish, and from which
// keyword pool.
type ScheduleSetting struct {
	ID                int64      `db:"id" json:"id"`
	WordPressConfigID int64      `db:"wordpress_config_id" json:"wordpress_config_id"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	Frequency         Frequency  `db:"frequency" json:"frequency"`
	Time              string     `db:"time" json:"time"` // "HH:MM" wall clock in the operational timezone
	TargetKeywords    StringList `db:"target_keywords" json:"target_keywords"`
	PublishStatus     string     `db:"publish_status" json:"publish_status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// NewScheduleSetting creates a new ScheduleSetting with default values
func NewScheduleSetting() *ScheduleSetting {
	now := time.Now()
	return &ScheduleSetting{
		IsActive:      true,
		Frequency:     FrequencyDaily,
		PublishStatus: PublishStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
