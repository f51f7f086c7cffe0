package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autopress/publisher/internal/models"
)

// ActiveAIConfig returns the AI provider configuration in effect: the most
// recently created row wins when several exist.
func (s *Store) ActiveAIConfig(ctx context.Context) (*models.AIConfig, error) {
	var cfg models.AIConfig
	err := s.db.GetContext(ctx, &cfg,
		`SELECT * FROM ai_configs ORDER BY created_at DESC, id DESC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("active ai config: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("query active ai config: %w", err)
	}
	return &cfg, nil
}

// InsertAIConfig appends a new AI configuration, making it the active one.
func (s *Store) InsertAIConfig(ctx context.Context, cfg *models.AIConfig) error {
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_configs (provider, api_key, model, temperature, max_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cfg.Provider, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ai config: %w", err)
	}
	cfg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert ai config id: %w", err)
	}
	return nil
}

// ListAIConfigs returns all AI configurations, newest first.
func (s *Store) ListAIConfigs(ctx context.Context) ([]models.AIConfig, error) {
	var configs []models.AIConfig
	err := s.db.SelectContext(ctx, &configs,
		`SELECT * FROM ai_configs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ai configs: %w", err)
	}
	return configs, nil
}
