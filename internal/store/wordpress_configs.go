package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autopress/publisher/internal/models"
)

// WordPressConfigByID fetches a single site configuration.
func (s *Store) WordPressConfigByID(ctx context.Context, id int64) (*models.WordPressConfig, error) {
	var cfg models.WordPressConfig
	err := s.db.GetContext(ctx, &cfg, `SELECT * FROM wordpress_configs WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("wordpress config %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query wordpress config %d: %w", id, err)
	}
	return &cfg, nil
}

// ListWordPressConfigs returns all site configurations.
func (s *Store) ListWordPressConfigs(ctx context.Context) ([]models.WordPressConfig, error) {
	var configs []models.WordPressConfig
	err := s.db.SelectContext(ctx, &configs, `SELECT * FROM wordpress_configs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list wordpress configs: %w", err)
	}
	return configs, nil
}

// InsertWordPressConfig creates a new site configuration.
func (s *Store) InsertWordPressConfig(ctx context.Context, cfg *models.WordPressConfig) error {
	now := time.Now()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO wordpress_configs (name, url, username, application_password, category, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.Name, cfg.URL, cfg.Username, cfg.ApplicationPassword, cfg.Category, cfg.IsActive, cfg.CreatedAt, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert wordpress config: %w", err)
	}
	cfg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert wordpress config id: %w", err)
	}
	return nil
}

// UpdateWordPressConfig updates an existing site configuration.
func (s *Store) UpdateWordPressConfig(ctx context.Context, cfg *models.WordPressConfig) error {
	cfg.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE wordpress_configs
		SET name = ?, url = ?, username = ?, application_password = ?, category = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		cfg.Name, cfg.URL, cfg.Username, cfg.ApplicationPassword, cfg.Category, cfg.IsActive, cfg.UpdatedAt, cfg.ID)
	if err != nil {
		return fmt.Errorf("update wordpress config %d: %w", cfg.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("wordpress config %d: %w", cfg.ID, ErrNotFound)
	}
	return nil
}

// DeleteWordPressConfig removes a site configuration.
func (s *Store) DeleteWordPressConfig(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wordpress_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wordpress config %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("wordpress config %d: %w", id, ErrNotFound)
	}
	return nil
}
