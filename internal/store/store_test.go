package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"autopress/publisher/internal/database"
	"autopress/publisher/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(database.NewConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func insertTestWordPressConfig(t *testing.T, s *Store) *models.WordPressConfig {
	t.Helper()
	cfg := models.NewWordPressConfig()
	cfg.Name = "Test Site"
	cfg.URL = "https://example.com"
	cfg.Username = "admin"
	cfg.ApplicationPassword = "secret"
	cfg.Category = "news"
	if err := s.InsertWordPressConfig(context.Background(), cfg); err != nil {
		t.Fatalf("InsertWordPressConfig: %v", err)
	}
	return cfg
}

func TestWordPressConfigRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cfg := insertTestWordPressConfig(t, s)
	if cfg.ID == 0 {
		t.Fatal("insert did not assign an id")
	}

	got, err := s.WordPressConfigByID(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("WordPressConfigByID: %v", err)
	}
	if got.Name != cfg.Name || got.ApplicationPassword != "secret" || got.Category != "news" {
		t.Errorf("got = %+v", got)
	}

	got.Category = "tech"
	if err := s.UpdateWordPressConfig(ctx, got); err != nil {
		t.Fatalf("UpdateWordPressConfig: %v", err)
	}
	got, _ = s.WordPressConfigByID(ctx, cfg.ID)
	if got.Category != "tech" {
		t.Errorf("category = %q after update", got.Category)
	}

	if err := s.DeleteWordPressConfig(ctx, cfg.ID); err != nil {
		t.Fatalf("DeleteWordPressConfig: %v", err)
	}
	if _, err := s.WordPressConfigByID(ctx, cfg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteWordPressConfig(ctx, cfg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestScheduleKeywordsSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	wp := insertTestWordPressConfig(t, s)

	sched := models.NewScheduleSetting()
	sched.WordPressConfigID = wp.ID
	sched.Time = "09:00"
	sched.TargetKeywords = models.StringList{"golang", "日本語キーワード", "has,comma"}
	if err := s.InsertSchedule(ctx, sched); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	got, err := s.ScheduleByID(ctx, sched.ID)
	if err != nil {
		t.Fatalf("ScheduleByID: %v", err)
	}
	if len(got.TargetKeywords) != 3 || got.TargetKeywords[1] != "日本語キーワード" || got.TargetKeywords[2] != "has,comma" {
		t.Errorf("keywords = %v", got.TargetKeywords)
	}
}

func TestActiveSchedulesFiltersInactive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	wp := insertTestWordPressConfig(t, s)

	active := models.NewScheduleSetting()
	active.WordPressConfigID = wp.ID
	active.Time = "09:00"
	active.TargetKeywords = models.StringList{"a"}
	if err := s.InsertSchedule(ctx, active); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	inactive := models.NewScheduleSetting()
	inactive.WordPressConfigID = wp.ID
	inactive.Time = "10:00"
	inactive.TargetKeywords = models.StringList{"b"}
	inactive.IsActive = false
	if err := s.InsertSchedule(ctx, inactive); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	schedules, err := s.ActiveSchedules(ctx)
	if err != nil {
		t.Fatalf("ActiveSchedules: %v", err)
	}
	if len(schedules) != 1 || schedules[0].ID != active.ID {
		t.Errorf("active schedules = %+v", schedules)
	}
}

func TestActiveAIConfigIsNewest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.ActiveAIConfig(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty table err = %v, want ErrNotFound", err)
	}

	old := models.NewAIConfig()
	old.Provider = models.ProviderOpenAI
	old.APIKey = "old-key"
	old.Model = "gpt-4o"
	old.CreatedAt = time.Now().Add(-time.Hour)
	if err := s.InsertAIConfig(ctx, old); err != nil {
		t.Fatalf("InsertAIConfig: %v", err)
	}

	newest := models.NewAIConfig()
	newest.Provider = models.ProviderClaude
	newest.APIKey = "new-key"
	newest.Model = "claude-sonnet-4-20250514"
	if err := s.InsertAIConfig(ctx, newest); err != nil {
		t.Fatalf("InsertAIConfig: %v", err)
	}

	active, err := s.ActiveAIConfig(ctx)
	if err != nil {
		t.Fatalf("ActiveAIConfig: %v", err)
	}
	if active.Provider != models.ProviderClaude || active.APIKey != "new-key" {
		t.Errorf("active = %+v, want the newest config", active)
	}
}

func TestUsedKeywordsAndLastExecution(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	wp := insertTestWordPressConfig(t, s)

	sched := models.NewScheduleSetting()
	sched.WordPressConfigID = wp.ID
	sched.Time = "09:00"
	sched.TargetKeywords = models.StringList{"a", "b"}
	if err := s.InsertSchedule(ctx, sched); err != nil {
		t.Fatalf("InsertSchedule: %v", err)
	}

	last, err := s.LastSuccessfulExecution(ctx, sched.ID)
	if err != nil || last != nil {
		t.Fatalf("empty history: last = %v, err = %v", last, err)
	}

	failure := "provider 429"
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := []models.ExecutionHistory{
		{ScheduleID: sched.ID, WordPressConfigID: wp.ID, ExecutedAt: base,
			KeywordUsed: "a", Status: models.ExecutionStatusSuccess},
		{ScheduleID: sched.ID, WordPressConfigID: wp.ID, ExecutedAt: base.Add(24 * time.Hour),
			KeywordUsed: "b", Status: models.ExecutionStatusError,
			ErrorMessage: &failure},
		{ScheduleID: sched.ID, WordPressConfigID: wp.ID, ExecutedAt: base.Add(48 * time.Hour),
			KeywordUsed: "a", Status: models.ExecutionStatusSuccess},
	}
	for i := range rows {
		if err := s.AppendHistory(ctx, &rows[i]); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}

	// Only successful executions consume keywords.
	used, err := s.UsedKeywords(ctx, sched.ID)
	if err != nil {
		t.Fatalf("UsedKeywords: %v", err)
	}
	if len(used) != 1 || used[0] != "a" {
		t.Errorf("used = %v, want [a]", used)
	}

	last, err = s.LastSuccessfulExecution(ctx, sched.ID)
	if err != nil {
		t.Fatalf("LastSuccessfulExecution: %v", err)
	}
	if last == nil || !last.Equal(base.Add(48*time.Hour)) {
		t.Errorf("last = %v, want the newest success", last)
	}

	history, err := s.ListHistory(ctx, sched.ID, 10)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(history) != 3 || !history[0].ExecutedAt.After(history[2].ExecutedAt) {
		t.Errorf("history order: %+v", history)
	}
}

func TestArticleLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := models.NewArticle()
	a.Title = "Draft Title"
	a.Content = "Body"
	a.Keywords = models.StringList{"k1", "k2"}
	if err := s.InsertArticle(ctx, a); err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}
	if a.Status != models.ArticleStatusDraft {
		t.Fatalf("new article status = %q", a.Status)
	}

	if err := s.MarkArticlePublished(ctx, a.ID, "1234"); err != nil {
		t.Fatalf("MarkArticlePublished: %v", err)
	}
	got, err := s.ArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("ArticleByID: %v", err)
	}
	if got.Status != models.ArticleStatusPublished || got.WordPressPostID == nil || *got.WordPressPostID != "1234" {
		t.Errorf("after publish: %+v", got)
	}

	if err := s.MarkArticleFailed(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing article err = %v, want ErrNotFound", err)
	}
}

func TestListArticlesCursorPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		a := models.NewArticle()
		a.Title = "Article"
		a.Content = "body"
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.InsertArticle(ctx, a); err != nil {
			t.Fatalf("InsertArticle: %v", err)
		}
	}

	page, err := s.ListArticles(ctx, 2, nil, nil, nil)
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("first page = %d rows", len(page))
	}

	cursorTS := page[1].CreatedAt
	cursorID := page[1].ID
	rest, err := s.ListArticles(ctx, 10, nil, &cursorTS, &cursorID)
	if err != nil {
		t.Fatalf("ListArticles cursor: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("second page = %d rows", len(rest))
	}
	if rest[0].ID <= cursorID {
		t.Errorf("cursor page re-delivered row %d", rest[0].ID)
	}

	since := base.Add(2 * time.Minute)
	fromSince, err := s.ListArticles(ctx, 10, &since, nil, nil)
	if err != nil {
		t.Fatalf("ListArticles since: %v", err)
	}
	if len(fromSince) != 1 {
		t.Errorf("since page = %d rows, want 1 newer than cutoff", len(fromSince))
	}
}
