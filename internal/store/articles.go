package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autopress/publisher/internal/models"
)

// InsertArticle creates a new article record, normally as a draft right
// after generation.
func (s *Store) InsertArticle(ctx context.Context, a *models.Article) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (title, content, excerpt, keywords, category, status, seo_score, reading_time, wordpress_config_id, wordpress_post_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Content, a.Excerpt, a.Keywords, a.Category, a.Status,
		a.SEOScore, a.ReadingTime, a.WordPressConfigID, a.WordPressPostID,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert article id: %w", err)
	}
	return nil
}

// MarkArticlePublished transitions an article to published and records the
// WordPress post id assigned by the target site.
func (s *Store) MarkArticlePublished(ctx context.Context, id int64, postID string) error {
	return s.setArticleStatus(ctx, id, models.ArticleStatusPublished,
		sql.NullString{String: postID, Valid: postID != ""})
}

// MarkArticleFailed transitions an article to failed. The row is kept so
// operators can retry the publish manually.
func (s *Store) MarkArticleFailed(ctx context.Context, id int64) error {
	return s.setArticleStatus(ctx, id, models.ArticleStatusFailed, sql.NullString{})
}

func (s *Store) setArticleStatus(ctx context.Context, id int64, status string, postID sql.NullString) error {
	var err error
	var res sql.Result
	if postID.Valid {
		res, err = s.db.ExecContext(ctx,
			`UPDATE articles SET status = ?, wordpress_post_id = ?, updated_at = ? WHERE id = ?`,
			status, postID, time.Now(), id)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE articles SET status = ?, updated_at = ? WHERE id = ?`,
			status, time.Now(), id)
	}
	if err != nil {
		return fmt.Errorf("update article %d status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// ArticleByID fetches a single article.
func (s *Store) ArticleByID(ctx context.Context, id int64) (*models.Article, error) {
	var a models.Article
	err := s.db.GetContext(ctx, &a, `SELECT * FROM articles WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query article %d: %w", id, err)
	}
	return &a, nil
}

// ListArticles retrieves articles based on time or cursor. Ordering is
// (created_at, id) ascending so cursor pagination is stable.
func (s *Store) ListArticles(ctx context.Context, limit int, since *time.Time, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error) {
	var articles []models.Article
	var query string
	var args []any

	const baseQuery = `SELECT * FROM articles `
	const orderBy = ` ORDER BY created_at ASC, id ASC LIMIT ?`

	switch {
	case cursorTimestamp != nil && cursorID != nil:
		query = baseQuery + `WHERE (created_at > ?) OR (created_at = ? AND id > ?)` + orderBy
		args = append(args, cursorTimestamp.UTC(), cursorTimestamp.UTC(), *cursorID, limit)
	case since != nil:
		query = baseQuery + `WHERE created_at > ?` + orderBy
		args = append(args, since.UTC(), limit)
	default:
		query = baseQuery + `WHERE 1=1` + orderBy
		args = append(args, limit)
	}

	err := s.db.SelectContext(ctx, &articles, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Article{}, nil
		}
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}
