package models

import "time"

// WordPressConfig represents a row in the 'wordpress_configs' table: one
// target site reachable via its REST API with an application password.
type WordPressConfig struct {
	ID                  int64     `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	URL                 string    `db:"url" json:"url"`
	Username            string    `db:"username" json:"username"`
	ApplicationPassword string    `db:"application_password" json:"-"`
	Category            string    `db:"category" json:"category"` // slug or display name, not an id
	IsActive            bool      `db:"is_active" json:"is_active"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// NewWordPressConfig creates a new WordPressConfig with default values
func NewWordPressConfig() *WordPressConfig {
	now := time.Now()
	return &WordPressConfig{
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
