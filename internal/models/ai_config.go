package models

import "time"

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

// AIConfig represents a row in the 'ai_configs' table. When several rows
// exist, the most recently created one is the active configuration.
type AIConfig struct {
	ID          int64     `db:"id" json:"id"`
	Provider    Provider  `db:"provider" json:"provider"`
	APIKey      string    `db:"api_key" json:"-"`
	Model       string    `db:"model" json:"model"`
	Temperature float64   `db:"temperature" json:"temperature"`
	MaxTokens   int       `db:"max_tokens" json:"max_tokens"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NewAIConfig creates a new AIConfig with default values
func NewAIConfig() *AIConfig {
	return &AIConfig{
		Temperature: 0.7,
		MaxTokens:   4000,
		CreatedAt:   time.Now(),
	}
}
