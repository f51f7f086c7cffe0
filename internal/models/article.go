package models

import (
	"time"
)

// Article lifecycle statuses.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusScheduled = "scheduled"
	ArticleStatusPublished = "published"
	ArticleStatusFailed    = "failed"
)

// Article represents a row in the 'articles' table: generated content,
// independent of whether WordPress accepted it. Articles are never
// deleted automatically so operators can retry failed publishes by hand.
type Article struct {
	ID                int64      `db:"id" json:"id"`
	Title             string     `db:"title" json:"title"`
	Content           string     `db:"content" json:"content"`
	Excerpt           string     `db:"excerpt" json:"excerpt"`
	Keywords          StringList `db:"keywords" json:"keywords"`
	Category          string     `db:"category" json:"category"`
	Status            string     `db:"status" json:"status"`
	SEOScore          int        `db:"seo_score" json:"seo_score"`
	ReadingTime       int        `db:"reading_time" json:"reading_time"` // minutes
	WordPressConfigID *int64     `db:"wordpress_config_id" json:"wordpress_config_id,omitempty"`
	WordPressPostID   *string    `db:"wordpress_post_id" json:"wordpress_post_id,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// NewArticle creates a new draft Article with default values
func NewArticle() *Article {
	now := time.Now()
	return &Article{
		Status:    ArticleStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
