package models

import (
	"time"
)

// Execution outcome statuses recorded in history rows.
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// ExecutionHistory represents a row in the append-only 'execution_history'
// table. It drives both the due-time check (time since last run) and
// keyword rotation (which keywords were already used).
type ExecutionHistory struct {
	ID                int64     `db:"id" json:"id"`
	ScheduleID        int64     `db:"schedule_id" json:"schedule_id"`
	WordPressConfigID int64     `db:"wordpress_config_id" json:"wordpress_config_id"`
	ExecutedAt        time.Time `db:"executed_at" json:"executed_at"`
	KeywordUsed       string    `db:"keyword_used" json:"keyword_used"`
	ArticleTitle      string    `db:"article_title" json:"article_title"`
	WordPressPostID   *string   `db:"wordpress_post_id" json:"wordpress_post_id,omitempty"`
	Status            string    `db:"status" json:"status"`
	ErrorMessage      *string   `db:"error_message" json:"error_message,omitempty"`
}
