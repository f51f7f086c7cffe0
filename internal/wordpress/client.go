// Package wordpress is a thin client for the WordPress REST API, covering
// post creation with category and SEO metadata, post listing/deletion for
// the operator UI, and the category lookup chain.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autopress/publisher/internal/models"
)

// PublishError reports a non-success response from the target site.
type PublishError struct {
	Status int
	Body   string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("wordpress returned status %d: %s", e.Status, e.Body)
}

// Client talks to one WordPress site using HTTP Basic auth with an
// application password.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient creates a client for the given site configuration.
func NewClient(cfg *models.WordPressConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.ApplicationPassword,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) authorization() string {
	creds := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
	return "Basic " + creds
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// PostInput is the payload for creating a post.
type PostInput struct {
	Title      string
	Content    string
	Excerpt    string
	Status     string // "publish" or "draft"
	Categories []int64
	Keywords   []string
}

// CreatedPost is the subset of the create-post response we use.
type CreatedPost struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

type postPayload struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Excerpt    string            `json:"excerpt,omitempty"`
	Status     string            `json:"status"`
	Categories []int64           `json:"categories,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// CreatePost publishes the article and returns the id assigned by the
// site. The SEO plugin meta fields are best effort; sites without the
// plugin ignore them.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*CreatedPost, error) {
	payload := postPayload{
		Title:      input.Title,
		Content:    input.Content,
		Excerpt:    input.Excerpt,
		Status:     input.Status,
		Categories: input.Categories,
		Meta: map[string]string{
			"_yoast_wpseo_focuskw":  strings.Join(input.Keywords, ", "),
			"_yoast_wpseo_metadesc": input.Excerpt,
			"_yoast_wpseo_title":    input.Title,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/wp-json/wp/v2/posts", body)
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

	if resp.StatusCode != http.StatusCreated {
		return nil, &PublishError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var created CreatedPost
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("failed to parse create-post response: %w", err)
	}
	return &created, nil
}

// Post is the subset of a listed post used by the UI.
type Post struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
	Date   string `json:"date"`
	Title  struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

// ListPosts returns a page of posts from the site.
func (c *Client) ListPosts(ctx context.Context, page, perPage int) ([]Post, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	path := fmt.Sprintf("/wp-json/wp/v2/posts?page=%d&per_page=%d", page, perPage)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
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

	var posts []Post
	if err := json.Unmarshal(respBody, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse posts response: %w", err)
	}
	return posts, nil
}

// DeletePost removes a post (moves it to the trash unless the site is
// configured otherwise).
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/wp-json/wp/v2/posts/%d", id), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call WordPress API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &PublishError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
