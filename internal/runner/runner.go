// Package runner drives one invocation of the pipeline: for every active
// schedule it asks the due-time evaluator whether to fire, and on a yes
// walks keyword selection, article generation, publishing and the history
// write. Failures are isolated per schedule; only a missing AI
// configuration fails the invocation itself.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"autopress/publisher/internal/generate"
	"autopress/publisher/internal/models"
	"autopress/publisher/internal/schedule"
	"autopress/publisher/internal/store"
	"autopress/publisher/internal/wordpress"
)

// ErrNoActiveAIConfig means no AI configuration row exists. Every schedule
// needs one, so this fails the whole invocation.
var ErrNoActiveAIConfig = errors.New("no active AI configuration")

// Publisher is the slice of the WordPress client the runner needs.
type Publisher interface {
	ResolveCategoryIDs(ctx context.Context, name string) []int64
	CreatePost(ctx context.Context, input wordpress.PostInput) (*wordpress.CreatedPost, error)
}

// Result is the per-schedule outcome of one invocation.
type Result struct {
	ScheduleID int64  `json:"schedule_id"`
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped,omitempty"`
	Keyword    string `json:"keyword,omitempty"`
	ArticleID  int64  `json:"article_id,omitempty"`
	PostID     string `json:"post_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes one invocation.
type Report struct {
	Executed  int       `json:"executed"`
	Results   []Result  `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// Runner executes invocations. Schedules are processed sequentially; each
// one's pipeline touches a disjoint WordPress target and keyword pool, so
// nothing depends on cross-schedule ordering.
type Runner struct {
	store     *store.Store
	evaluator *schedule.Evaluator

	// Injection points for tests; the zero values from New are the real
	// implementations.
	now          func() time.Time
	rng          *rand.Rand
	newProvider  func(models.AIConfig) (generate.Provider, error)
	newPublisher func(*models.WordPressConfig) Publisher

	outboundTimeout time.Duration
}

// New creates a runner with production collaborators.
func New(st *store.Store, eval *schedule.Evaluator, outboundTimeout time.Duration) *Runner {
	r := &Runner{
		store:           st,
		evaluator:       eval,
		now:             time.Now,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		newProvider:     generate.New,
		outboundTimeout: outboundTimeout,
	}
	r.newPublisher = func(cfg *models.WordPressConfig) Publisher {
		return wordpress.NewClient(cfg, outboundTimeout)
	}
	return r
}

// Run executes one invocation. force bypasses all due-time checks — the
// manual trigger path.
func (r *Runner) Run(ctx context.Context, force bool) (*Report, error) {
	aiCfg, err := r.store.ActiveAIConfig(ctx)
	if err != nil {
		// Precondition for the whole run, not a per-schedule condition.
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveAIConfig
		}
		return nil, fmt.Errorf("failed to load active AI config: %w", err)
	}

	schedules, err := r.store.ActiveSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active schedules: %w", err)
	}

	log.Info().
		Int("schedules", len(schedules)).
		Bool("force", force).
		Str("provider", string(aiCfg.Provider)).
		Msg("Starting invocation")

	report := &Report{Timestamp: r.now()}
	for _, sched := range schedules {
		result := r.runSchedule(ctx, *aiCfg, sched, force)
		if result.Success {
			report.Executed++
		}
		report.Results = append(report.Results, result)
	}

	log.Info().
		Int("executed", report.Executed).
		Int("results", len(report.Results)).
		Msg("Invocation finished")

	return report, nil
}

// runSchedule walks a single schedule through the pipeline. Every error is
// converted into a Result so the invocation keeps going.
func (r *Runner) runSchedule(ctx context.Context, aiCfg models.AIConfig, sched models.ScheduleSetting, force bool) Result {
	result := Result{ScheduleID: sched.ID}
	slog := log.With().Int64("schedule_id", sched.ID).Logger()

	last, err := r.store.LastSuccessfulExecution(ctx, sched.ID)
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Failed to load last execution")
		return result
	}

	due, err := r.evaluator.IsDue(sched, r.now(), last, force)
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Str("time", sched.Time).Msg("Schedule has an invalid time")
		return result
	}
	if !due {
		result.Skipped = true
		slog.Debug().Msg("Schedule not due")
		return result
	}

	wpCfg, err := r.store.WordPressConfigByID(ctx, sched.WordPressConfigID)
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Int64("wordpress_config_id", sched.WordPressConfigID).Msg("Failed to load WordPress config")
		return result
	}

	used, err := r.store.UsedKeywords(ctx, sched.ID)
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Failed to load used keywords")
		return result
	}

	keyword, err := schedule.SelectKeyword(sched.TargetKeywords, used, r.rng)
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Keyword selection failed")
		return result
	}
	result.Keyword = keyword
	slog.Info().Str("keyword", keyword).Msg("Schedule due, generating article")

	provider, err := r.newProvider(aiCfg)
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Provider setup failed")
		return result
	}

	generated, err := provider.Generate(ctx, generate.DefaultPrompt(keyword))
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Generation failed")
		r.recordFailure(ctx, sched, keyword, "", err)
		return result
	}

	article := models.NewArticle()
	article.Title = generated.Title
	article.Content = generated.Content
	article.Excerpt = generate.Excerpt(generated.Content)
	article.Keywords = models.StringList(generate.ExtractKeywords(generated.Content))
	article.Category = wpCfg.Category
	article.SEOScore = generate.SEOScore(generated.Title, generated.Content)
	article.ReadingTime = generate.ReadingTime(generated.Content)
	article.WordPressConfigID = &wpCfg.ID

	if err := r.store.InsertArticle(ctx, article); err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Failed to store draft article")
		return result
	}
	result.ArticleID = article.ID

	publisher := r.newPublisher(wpCfg)
	categories := publisher.ResolveCategoryIDs(ctx, wpCfg.Category)

	created, err := publisher.CreatePost(ctx, wordpress.PostInput{
		Title:      article.Title,
		Content:    article.Content,
		Excerpt:    article.Excerpt,
		Status:     sched.PublishStatus,
		Categories: categories,
		Keywords:   article.Keywords,
	})
	if err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Publish failed")
		if markErr := r.store.MarkArticleFailed(ctx, article.ID); markErr != nil {
			slog.Error().Err(markErr).Msg("Failed to mark article failed")
		}
		r.recordFailure(ctx, sched, keyword, article.Title, err)
		return result
	}

	postID := strconv.FormatInt(created.ID, 10)
	result.PostID = postID

	if err := r.store.MarkArticlePublished(ctx, article.ID, postID); err != nil {
		slog.Error().Err(err).Msg("Failed to mark article published")
	}

	history := &models.ExecutionHistory{
		ScheduleID:        sched.ID,
		WordPressConfigID: sched.WordPressConfigID,
		ExecutedAt:        r.now(),
		KeywordUsed:       keyword,
		ArticleTitle:      article.Title,
		WordPressPostID:   &postID,
		Status:            models.ExecutionStatusSuccess,
	}
	if err := r.store.AppendHistory(ctx, history); err != nil {
		result.Error = err.Error()
		slog.Error().Err(err).Msg("Failed to append execution history")
		return result
	}

	result.Success = true
	slog.Info().Str("post_id", postID).Str("title", article.Title).Msg("Published")
	return result
}

// recordFailure appends an error history row. The write is best effort; a
// failing history append must not mask the original error.
func (r *Runner) recordFailure(ctx context.Context, sched models.ScheduleSetting, keyword, title string, cause error) {
	msg := cause.Error()
	history := &models.ExecutionHistory{
		ScheduleID:        sched.ID,
		WordPressConfigID: sched.WordPressConfigID,
		ExecutedAt:        r.now(),
		KeywordUsed:       keyword,
		ArticleTitle:      title,
		Status:            models.ExecutionStatusError,
		ErrorMessage:      &msg,
	}
	if err := r.store.AppendHistory(ctx, history); err != nil {
		log.Error().Err(err).Int64("schedule_id", sched.ID).Msg("Failed to record error history")
	}
}
