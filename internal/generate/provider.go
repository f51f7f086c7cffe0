// Package generate turns a keyword into a drafted article by calling one
// of the supported LLM backends and normalizing their response shapes
// into a single {title, content} result.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"autopress/publisher/internal/models"
)

// Errors surfaced before any network call is made.
var (
	ErrMissingCredential   = errors.New("missing api key")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// ProviderError reports a non-success HTTP status from an LLM backend.
type ProviderError struct {
	Provider models.Provider
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s api returned status %d: %s", e.Provider, e.Status, e.Body)
}

// Result is the normalized output of a generation call.
type Result struct {
	Title   string
	Content string
}

// Provider generates an article draft for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt Prompt) (Result, error)
}

// DefaultTimeout bounds every provider call; the upstream APIs define no
// timeout of their own.
const DefaultTimeout = 30 * time.Second

// New returns the provider implementation selected by cfg. The dispatch on
// the provider tag happens here and nowhere else.
func New(cfg models.AIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingCredential, cfg.Provider)
	}

	client := &http.Client{Timeout: DefaultTimeout}

	switch cfg.Provider {
	case models.ProviderOpenAI:
		return &openAIProvider{cfg: cfg, client: client, baseURL: openAIBaseURL}, nil
	case models.ProviderGemini:
		return &geminiProvider{cfg: cfg, client: client, baseURL: geminiBaseURL}, nil
	case models.ProviderClaude:
		return &claudeProvider{cfg: cfg, client: client, baseURL: claudeBaseURL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// systemPersona fixes the writing persona across all backends.
const systemPersona = "You are a professional Japanese SEO writer. You write well-structured, accurate blog articles optimized for search engines, starting with a single heading line followed by the article body."
