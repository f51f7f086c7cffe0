package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// File paths
	DBPath   string
	SeedPath string

	// Server settings
	ServerHost string
	ServerPort int
	APIKey     string

	// Scheduling settings
	Timezone      string
	WindowMinutes int

	// Outbound HTTP settings
	OutboundTimeout time.Duration

	// Keyword trend scoring
	TrendFeeds []string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults,
// overridable via PUBLISHER_* environment variables.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		DBPath:          GetEnvString("PUBLISHER_DB_PATH", DefaultDBPath),
		SeedPath:        GetEnvString("PUBLISHER_SEED_PATH", DefaultSeedPath),
		ServerHost:      DefaultServerHost,
		ServerPort:      DefaultServerPort,
		APIKey:          GetEnvString("PUBLISHER_API_KEY", ""),
		Timezone:        GetEnvString("PUBLISHER_TIMEZONE", DefaultTimezone),
		WindowMinutes:   GetEnvInt("PUBLISHER_WINDOW_MINUTES", DefaultWindowMinutes),
		OutboundTimeout: time.Duration(GetEnvInt("PUBLISHER_OUTBOUND_TIMEOUT_SECS", DefaultOutboundTimeoutSecs)) * time.Second,
		TrendFeeds:      trendFeedsFromEnv(),
		LogLevel:        logLevel,
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// DueWindow returns the due-time window half-width as a duration.
func (c *Config) DueWindow() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

func trendFeedsFromEnv() []string {
	raw := GetEnvString("PUBLISHER_TREND_FEEDS", "")
	if raw == "" {
		return DefaultTrendFeeds
	}

	var feeds []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			feeds = append(feeds, f)
		}
	}
	return feeds
}
