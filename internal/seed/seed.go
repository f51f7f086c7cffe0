// Package seed bootstraps the store from a YAML file: one optional AI
// config plus WordPress sites with their schedules. It is the operator's
// way to load a working setup without going through the HTTP API.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"autopress/publisher/internal/models"
	"autopress/publisher/internal/schedule"
	"autopress/publisher/internal/store"
)

// File is the root of the seed document.
type File struct {
	AI    *AIEntry    `yaml:"ai"`
	Sites []SiteEntry `yaml:"sites"`
}

// AIEntry configures the generation provider.
type AIEntry struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SiteEntry is one WordPress target with its schedules.
type SiteEntry struct {
	Name                string          `yaml:"name"`
	URL                 string          `yaml:"url"`
	Username            string          `yaml:"username"`
	ApplicationPassword string          `yaml:"application_password"`
	Category            string          `yaml:"category"`
	Schedules           []ScheduleEntry `yaml:"schedules"`
}

// ScheduleEntry is one publishing schedule under a site.
type ScheduleEntry struct {
	Frequency     string   `yaml:"frequency"`
	Time          string   `yaml:"time"`
	Keywords      []string `yaml:"keywords"`
	PublishStatus string   `yaml:"publish_status"`
}

// Seeder loads a seed file into the store.
type Seeder struct {
	store *store.Store
}

// NewSeeder creates a seeder over the store.
func NewSeeder(st *store.Store) *Seeder {
	return &Seeder{store: st}
}

// Seed reads the YAML file at path and inserts its entries. Invalid
// entries are skipped with a warning; the summary reports both counts.
// The file itself failing to parse is fatal.
func (s *Seeder) Seed(ctx context.Context, path string) error {
	log.Info().Str("path", path).Msg("Starting seed import")

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	if file.AI != nil {
		if err := s.seedAI(ctx, file.AI); err != nil {
			return err
		}
	}

	sites := 0
	schedules := 0
	skipped := 0
	for i, site := range file.Sites {
		logger := log.With().Int("site", i+1).Str("name", site.Name).Logger()

		if msg := validateSite(&site); msg != "" {
			logger.Warn().Str("reason", msg).Msg("Skipping invalid site entry")
			skipped++
			continue
		}

		cfg := models.NewWordPressConfig()
		cfg.Name = site.Name
		cfg.URL = strings.TrimRight(site.URL, "/")
		cfg.Username = site.Username
		cfg.ApplicationPassword = site.ApplicationPassword
		cfg.Category = site.Category

		if err := s.store.InsertWordPressConfig(ctx, cfg); err != nil {
			logger.Error().Err(err).Msg("Failed to insert WordPress config")
			skipped++
			continue
		}
		sites++

		for j, entry := range site.Schedules {
			if msg := validateSchedule(&entry); msg != "" {
				logger.Warn().Int("schedule", j+1).Str("reason", msg).Msg("Skipping invalid schedule entry")
				skipped++
				continue
			}

			sched := models.NewScheduleSetting()
			sched.WordPressConfigID = cfg.ID
			sched.Frequency = models.Frequency(entry.Frequency)
			sched.Time = entry.Time
			sched.TargetKeywords = entry.Keywords
			if entry.PublishStatus != "" {
				sched.PublishStatus = entry.PublishStatus
			}

			if err := s.store.InsertSchedule(ctx, sched); err != nil {
				logger.Error().Err(err).Int("schedule", j+1).Msg("Failed to insert schedule")
				skipped++
				continue
			}
			schedules++
		}
	}

	log.Info().
		Int("sites", sites).
		Int("schedules", schedules).
		Int("skipped", skipped).
		Msg("Seed import summary")
	return nil
}

func (s *Seeder) seedAI(ctx context.Context, entry *AIEntry) error {
	switch models.Provider(entry.Provider) {
	case models.ProviderOpenAI, models.ProviderGemini, models.ProviderClaude:
	default:
		return fmt.Errorf("seed ai: unknown provider %q", entry.Provider)
	}
	if entry.APIKey == "" || entry.Model == "" {
		return fmt.Errorf("seed ai: api_key and model are required")
	}

	cfg := models.NewAIConfig()
	cfg.Provider = models.Provider(entry.Provider)
	cfg.APIKey = entry.APIKey
	cfg.Model = entry.Model
	if entry.Temperature > 0 {
		cfg.Temperature = entry.Temperature
	}
	if entry.MaxTokens > 0 {
		cfg.MaxTokens = entry.MaxTokens
	}

	if err := s.store.InsertAIConfig(ctx, cfg); err != nil {
		return fmt.Errorf("seed ai: %w", err)
	}
	log.Info().Str("provider", entry.Provider).Str("model", entry.Model).Msg("AI config seeded")
	return nil
}

func validateSite(site *SiteEntry) string {
	switch {
	case strings.TrimSpace(site.Name) == "":
		return "missing name"
	case !strings.HasPrefix(site.URL, "http://") && !strings.HasPrefix(site.URL, "https://"):
		return "url must start with http:// or https://"
	case strings.TrimSpace(site.Username) == "":
		return "missing username"
	case site.ApplicationPassword == "":
		return "missing application_password"
	}
	return ""
}

func validateSchedule(entry *ScheduleEntry) string {
	switch models.Frequency(entry.Frequency) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly:
	default:
		return "invalid frequency"
	}
	if !schedule.ValidWallClock(entry.Time) {
		return "invalid time"
	}
	if len(entry.Keywords) == 0 {
		return "empty keyword list"
	}
	switch entry.PublishStatus {
	case "", models.PublishStatusPublish, models.PublishStatusDraft:
	default:
		return "invalid publish_status"
	}
	return ""
}
