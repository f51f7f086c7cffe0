package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"autopress/publisher/internal/models"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiProvider calls the Generative Language API. The same request can
// be routed through the relay endpoint when the caller cannot reach the
// provider directly (the API rejects cross-origin browser calls).
type geminiProvider struct {
	cfg     models.AIConfig
	client  *http.Client
	baseURL string
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// BuildGeminiRequest assembles the provider request body. The relay
// endpoint reuses it so the two call paths cannot drift apart.
func BuildGeminiRequest(prompt string, temperature float64, maxTokens int) ([]byte, error) {
	return json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	})
}

// GeminiEndpoint returns the generateContent URL for a model, with the API
// key passed in the query string.
func GeminiEndpoint(baseURL, model, apiKey string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		baseURL, url.PathEscape(model), url.QueryEscape(apiKey))
}

// DefaultGeminiBaseURL exposes the production endpoint for the relay.
func DefaultGeminiBaseURL() string { return geminiBaseURL }

func (p *geminiProvider) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	// No separate system slot in this request shape; the persona leads
	// the single content part.
	jsonBody, err := BuildGeminiRequest(systemPersona+"\n\n"+prompt.Build(), p.cfg.Temperature, p.cfg.MaxTokens)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		GeminiEndpoint(p.baseURL, p.cfg.Model, p.cfg.APIKey), bytes.NewReader(jsonBody))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, &ProviderError{Provider: models.ProviderGemini, Status: resp.StatusCode, Body: string(body)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return Result{}, fmt.Errorf("Gemini returned no candidates")
	}

	title, content := SplitTitleContent(parsed.Candidates[0].Content.Parts[0].Text)
	return Result{Title: title, Content: content}, nil
}
