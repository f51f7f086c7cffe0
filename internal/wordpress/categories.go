package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

const fallbackCategorySlug = "uncategorized"

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ResolveCategoryIDs maps the human-supplied category string to existing
// category ids, never creating categories. The chain is: exact slug match,
// then free-text search (preferring an exact case-insensitive name match),
// then the literal "uncategorized" slug. When nothing resolves — including
// when lookups themselves fail — it returns an empty list so publishing
// proceeds with the site's own default category.
func (c *Client) ResolveCategoryIDs(ctx context.Context, name string) []int64 {
	name = strings.TrimSpace(name)

	if name != "" {
		if ids := c.lookupBySlug(ctx, name); len(ids) > 0 {
			return ids
		}
		if ids := c.lookupBySearch(ctx, name); len(ids) > 0 {
			return ids
		}
	}

	if !strings.EqualFold(name, fallbackCategorySlug) {
		if ids := c.lookupBySlug(ctx, fallbackCategorySlug); len(ids) > 0 {
			return ids
		}
	}

	log.Warn().Str("category", name).Msg("No category resolved, publishing without one")
	return nil
}

func (c *Client) lookupBySlug(ctx context.Context, slug string) []int64 {
	cats, err := c.queryCategories(ctx, "slug="+url.QueryEscape(strings.ToLower(slug)))
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Category slug lookup failed")
		return nil
	}
	if len(cats) == 0 {
		return nil
	}
	return []int64{cats[0].ID}
}

func (c *Client) lookupBySearch(ctx context.Context, name string) []int64 {
	cats, err := c.queryCategories(ctx, "search="+url.QueryEscape(name))
	if err != nil {
		log.Warn().Err(err).Str("search", name).Msg("Category search lookup failed")
		return nil
	}
	if len(cats) == 0 {
		return nil
	}

	for _, cat := range cats {
		if strings.EqualFold(cat.Name, name) {
			return []int64{cat.ID}
		}
	}
	return []int64{cats[0].ID}
}

func (c *Client) queryCategories(ctx context.Context, query string) ([]category, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/wp-json/wp/v2/categories?"+query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call WordPress API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &PublishError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var cats []category
	if err := json.Unmarshal(respBody, &cats); err != nil {
		return nil, fmt.Errorf("failed to parse categories response: %w", err)
	}
	return cats, nil
}
