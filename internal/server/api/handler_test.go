package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autopress/publisher/internal/database"
	"autopress/publisher/internal/models"
	"autopress/publisher/internal/runner"
	"autopress/publisher/internal/store"
	"autopress/publisher/internal/trends"
)

type fakeTrigger struct {
	report *runner.Report
	err    error
	force  bool
}

func (t *fakeTrigger) Run(_ context.Context, force bool) (*runner.Report, error) {
	t.force = force
	return t.report, t.err
}

type fakeScorer struct {
	trends []trends.Trend
	err    error
}

func (s *fakeScorer) Score(_ context.Context, _ []string) ([]trends.Trend, error) {
	return s.trends, s.err
}

func newTestHandler(t *testing.T) (*Handler, *store.Store) {
	t.Helper()
	db, err := database.NewDB(database.NewConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	st := store.New(db)
	return NewHandler(st, &fakeTrigger{report: &runner.Report{}}, &fakeScorer{}, time.Second), st
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestTriggerRunForwardsForceFlag(t *testing.T) {
	h, _ := newTestHandler(t)
	trigger := &fakeTrigger{report: &runner.Report{
		Executed:  1,
		Results:   []runner.Result{{ScheduleID: 3, Success: true}},
		Timestamp: time.Now(),
	}}
	h.trigger = trigger

	rec := doJSON(t, h.TriggerRun, http.MethodPost, "/v1/run", map[string]bool{"forceExecute": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !trigger.force {
		t.Error("force flag was not forwarded to the runner")
	}

	var resp runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Executed != 1 || len(resp.Results) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestTriggerRunEmptyBody(t *testing.T) {
	h, _ := newTestHandler(t)
	trigger := &fakeTrigger{report: &runner.Report{Timestamp: time.Now()}}
	h.trigger = trigger

	rec := doJSON(t, h.TriggerRun, http.MethodPost, "/v1/run", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if trigger.force {
		t.Error("empty body must not force")
	}
}

func TestTriggerRunReportsFailure(t *testing.T) {
	h, _ := newTestHandler(t)
	h.trigger = &fakeTrigger{err: errors.New("database locked")}

	rec := doJSON(t, h.TriggerRun, http.MethodPost, "/v1/run", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s, want success:false", rec.Body.String())
	}
}

func TestTriggerRunNoAIConfigIs409(t *testing.T) {
	h, _ := newTestHandler(t)
	h.trigger = &fakeTrigger{err: runner.ErrNoActiveAIConfig}

	rec := doJSON(t, h.TriggerRun, http.MethodPost, "/v1/run", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestWordPressConfigCRUDHidesPassword(t *testing.T) {
	h, st := newTestHandler(t)

	rec := doJSON(t, h.CreateWordPressConfig, http.MethodPost, "/v1/wordpress-configs", map[string]any{
		"name":                 "Blog",
		"url":                  "https://blog.example.com/",
		"username":             "admin",
		"application_password": "xxxx yyyy zzzz",
		"category":             "tech",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "xxxx yyyy zzzz") {
		t.Error("application password leaked in response")
	}

	var created models.WordPressConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.URL != "https://blog.example.com" {
		t.Errorf("url = %q, want trailing slash stripped", created.URL)
	}

	stored, err := st.WordPressConfigByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("WordPressConfigByID: %v", err)
	}
	if stored.ApplicationPassword != "xxxx yyyy zzzz" {
		t.Errorf("stored password = %q", stored.ApplicationPassword)
	}

	// Update without a password keeps the stored one.
	req := httptest.NewRequest(http.MethodPut, "/v1/wordpress-configs/1", strings.NewReader(
		`{"name":"Blog2","url":"https://blog.example.com","username":"admin","category":"tech"}`))
	req.SetPathValue("id", "1")
	upRec := httptest.NewRecorder()
	h.UpdateWordPressConfig(upRec, req)
	if upRec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", upRec.Code, upRec.Body.String())
	}
	stored, _ = st.WordPressConfigByID(context.Background(), created.ID)
	if stored.Name != "Blog2" || stored.ApplicationPassword != "xxxx yyyy zzzz" {
		t.Errorf("after update: name=%q password=%q", stored.Name, stored.ApplicationPassword)
	}
}

func TestCreateWordPressConfigValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"url": "https://x.com", "username": "u", "application_password": "p"}},
		{"bad url", map[string]any{"name": "n", "url": "ftp://x.com", "username": "u", "application_password": "p"}},
		{"missing password", map[string]any{"name": "n", "url": "https://x.com", "username": "u"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.CreateWordPressConfig, http.MethodPost, "/v1/wordpress-configs", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	h, st := newTestHandler(t)

	wp := models.NewWordPressConfig()
	wp.Name = "Blog"
	wp.URL = "https://blog.example.com"
	wp.Username = "admin"
	wp.ApplicationPassword = "p"
	if err := st.InsertWordPressConfig(context.Background(), wp); err != nil {
		t.Fatalf("InsertWordPressConfig: %v", err)
	}

	valid := map[string]any{
		"wordpress_config_id": wp.ID,
		"frequency":           "daily",
		"time":                "09:00",
		"target_keywords":     []string{"go", "sqlite"},
		"publish_status":      "draft",
	}
	rec := doJSON(t, h.CreateSchedule, http.MethodPost, "/v1/schedules", valid)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	invalid := []struct {
		name  string
		patch func(m map[string]any)
	}{
		{"bad frequency", func(m map[string]any) { m["frequency"] = "hourly" }},
		{"bad time", func(m map[string]any) { m["time"] = "25:00" }},
		{"empty keywords", func(m map[string]any) { m["target_keywords"] = []string{} }},
		{"bad status", func(m map[string]any) { m["publish_status"] = "pending" }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			body := make(map[string]any, len(valid))
			for k, v := range valid {
				body[k] = v
			}
			tc.patch(body)
			rec := doJSON(t, h.CreateSchedule, http.MethodPost, "/v1/schedules", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("dangling config id", func(t *testing.T) {
		body := make(map[string]any, len(valid))
		for k, v := range valid {
			body[k] = v
		}
		body["wordpress_config_id"] = 999
		rec := doJSON(t, h.CreateSchedule, http.MethodPost, "/v1/schedules", body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestCreateAIConfigHidesKey(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h.CreateAIConfig, http.MethodPost, "/v1/ai-configs", map[string]any{
		"provider": "claude",
		"api_key":  "sk-ant-secret",
		"model":    "claude-sonnet-4-20250514",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "sk-ant-secret") {
		t.Error("api key leaked in response")
	}

	rec = doJSON(t, h.CreateAIConfig, http.MethodPost, "/v1/ai-configs", map[string]any{
		"provider": "cohere", "api_key": "k", "model": "m",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown provider status = %d, want 400", rec.Code)
	}
}

func TestListArticlesPagination(t *testing.T) {
	h, st := newTestHandler(t)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		a := models.NewArticle()
		a.Title = "Article"
		a.Content = "body"
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		a.UpdatedAt = a.CreatedAt
		if err := st.InsertArticle(context.Background(), a); err != nil {
			t.Fatalf("InsertArticle: %v", err)
		}
	}

	rec := doJSON(t, h.ListArticles, http.MethodGet, "/v1/articles?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var page articlesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(page.Articles) != 2 || page.NextCursor == nil {
		t.Fatalf("page = %d articles, cursor %v", len(page.Articles), page.NextCursor)
	}

	seen := len(page.Articles)
	for page.NextCursor != nil {
		rec = doJSON(t, h.ListArticles, http.MethodGet, "/v1/articles?limit=2&cursor="+*page.NextCursor, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		page = articlesResponse{}
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		seen += len(page.Articles)
	}
	if seen != 5 {
		t.Errorf("walked %d articles, want 5", seen)
	}

	rec = doJSON(t, h.ListArticles, http.MethodGet, "/v1/articles?cursor=garbage", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("garbage cursor status = %d, want 400", rec.Code)
	}
}

func TestGeminiRelayForwardsVerbatim(t *testing.T) {
	providerJSON := `{"candidates":[{"content":{"parts":[{"text":"# T\nB"}]}}],"extra":"untouched"}`
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "relay-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("provider body: %v", err)
		}
		if _, ok := body["contents"]; !ok {
			t.Error("provider request missing contents")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(providerJSON))
	}))
	defer provider.Close()

	h, _ := newTestHandler(t)
	h.geminiBaseURL = provider.URL

	rec := doJSON(t, h.GeminiRelay, http.MethodPost, "/v1/gemini-relay", map[string]any{
		"prompt":      "write about Go",
		"apiKey":      "relay-key",
		"model":       "gemini-2.0-flash",
		"temperature": 0.5,
		"maxTokens":   1000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != providerJSON {
		t.Errorf("relay altered the provider response:\n%s", rec.Body.String())
	}

	rec = doJSON(t, h.GeminiRelay, http.MethodPost, "/v1/gemini-relay", map[string]any{"prompt": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields status = %d, want 400", rec.Code)
	}
}

func TestGeminiRelayReportsTransportError(t *testing.T) {
	h, _ := newTestHandler(t)
	h.geminiBaseURL = "http://127.0.0.1:1" // nothing listens here

	rec := doJSON(t, h.GeminiRelay, http.MethodPost, "/v1/gemini-relay", map[string]any{
		"prompt": "x", "apiKey": "k", "model": "m",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
		t.Errorf("body = %s, want {error}", rec.Body.String())
	}
}

func TestKeywordTrends(t *testing.T) {
	h, _ := newTestHandler(t)
	h.scorer = &fakeScorer{trends: []trends.Trend{{Keyword: "go", Score: 3, Mentions: 2}}}

	rec := doJSON(t, h.KeywordTrends, http.MethodGet, "/v1/keyword-trends?keywords=go,sqlite", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp trendsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Trends) != 1 || resp.Trends[0].Keyword != "go" {
		t.Errorf("trends = %+v", resp.Trends)
	}

	rec = doJSON(t, h.KeywordTrends, http.MethodGet, "/v1/keyword-trends", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no keywords status = %d, want 400", rec.Code)
	}
}
