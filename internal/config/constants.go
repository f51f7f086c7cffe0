package config

// Constants defining default values for application configuration
const (
	DefaultDBPath   = "./publisher.db"
	DefaultSeedPath = "./seed.yaml"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	// Operational timezone for interpreting schedule wall-clock times.
	DefaultTimezone = "Asia/Tokyo"

	// Half-width of the due-time window around a schedule's configured
	// time, in minutes. A schedule at 09:00 with window 5 fires between
	// 08:55 and 09:05.
	DefaultWindowMinutes = 5

	// Timeout applied to every outbound call (LLM providers, WordPress).
	DefaultOutboundTimeoutSecs = 30

	DefaultLogLevel = "debug"
)

// DefaultTrendFeeds are the news feeds the keyword trend scorer consults
// when none are configured via PUBLISHER_TREND_FEEDS.
var DefaultTrendFeeds = []string{
	"https://news.google.com/rss?hl=ja&gl=JP&ceid=JP:ja",
	"https://news.yahoo.co.jp/rss/topics/top-picks.xml",
}
