package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"autopress/publisher/internal/models"
)

const (
	claudeBaseURL    = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// claudeProvider calls the messages endpoint.
type claudeProvider struct {
	cfg     models.AIConfig
	client  *http.Client
	baseURL string
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *claudeProvider) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	reqBody := claudeRequest{
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		System:      systemPersona,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt.Build()},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to call Claude API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, &ProviderError{Provider: models.ProviderClaude, Status: resp.StatusCode, Body: string(body)}
	}

	var parsed claudeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse Claude response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return Result{}, fmt.Errorf("Claude returned no content")
	}

	title, content := SplitTitleContent(parsed.Content[0].Text)
	return Result{Title: title, Content: content}, nil
}
