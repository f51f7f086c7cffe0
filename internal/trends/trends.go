// Package trends scores candidate keywords against current news feed
// headlines. The score is an approximation for operators choosing keyword
// pools, not a precise popularity metric: each headline mention counts
// once, mentions fresher than recentWindow count double.
package trends

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reddot-watch/feedfetcher"
	"github.com/rs/zerolog/log"
)

const (
	fetchTimeout  = 15 * time.Second
	recentWindow  = 12 * time.Hour
	maxConcurrent = 4
)

// Trend is one scored keyword.
type Trend struct {
	Keyword  string `json:"keyword"`
	Score    int    `json:"score"`
	Mentions int    `json:"mentions"`
}

// Fetcher is the slice of feedfetcher the scorer uses.
type Fetcher interface {
	FetchAndProcess(ctx context.Context, url string) ([]*feedfetcher.FeedItem, error)
}

// Scorer fetches a fixed set of news feeds and counts keyword hits in
// their headlines.
type Scorer struct {
	fetcher Fetcher
	feeds   []string
}

// NewScorer creates a scorer over the given feed URLs.
func NewScorer(feeds []string) *Scorer {
	return &Scorer{
		fetcher: feedfetcher.NewFeedFetcher(feedfetcher.Config{
			UserAgent:            "autopress-publisher/1.0",
			RequestTimeout:       fetchTimeout,
			MaxItems:             100,
			MaxHeadingLength:     200,
			MaxAge:               48 * time.Hour,
			FutureDriftTolerance: 12 * time.Hour,
		}),
		feeds: feeds,
	}
}

type headline struct {
	text        string
	publishedAt time.Time
}

// Score fetches every configured feed and scores each keyword by headline
// mentions. Feeds that fail to fetch are logged and skipped; the result is
// computed over whatever could be gathered.
func (s *Scorer) Score(ctx context.Context, keywords []string) ([]Trend, error) {
	headlines := s.collect(ctx)

	now := time.Now()
	trends := make([]Trend, 0, len(keywords))
	for _, kw := range keywords {
		needle := strings.ToLower(strings.TrimSpace(kw))
		if needle == "" {
			continue
		}
		t := Trend{Keyword: kw}
		for _, h := range headlines {
			if !strings.Contains(strings.ToLower(h.text), needle) {
				continue
			}
			t.Mentions++
			if now.Sub(h.publishedAt) <= recentWindow {
				t.Score += 2
			} else {
				t.Score++
			}
		}
		trends = append(trends, t)
	}

	sort.SliceStable(trends, func(i, j int) bool {
		if trends[i].Score != trends[j].Score {
			return trends[i].Score > trends[j].Score
		}
		return trends[i].Keyword < trends[j].Keyword
	})
	return trends, nil
}

// collect fans out over the configured feeds with a small worker pool and
// gathers headlines.
func (s *Scorer) collect(ctx context.Context) []headline {
	feedQueue := make(chan string, len(s.feeds))
	for _, url := range s.feeds {
		feedQueue <- url
	}
	close(feedQueue)

	workers := maxConcurrent
	if len(s.feeds) < workers {
		workers = len(s.feeds)
	}

	var mu sync.Mutex
	var headlines []headline
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range feedQueue {
				fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
				items, err := s.fetcher.FetchAndProcess(fetchCtx, url)
				cancel()
				if err != nil {
					log.Warn().Err(err).Str("feed", url).Msg("Failed to fetch trend feed")
					continue
				}
				mu.Lock()
				for _, item := range items {
					headlines = append(headlines, headline{text: item.Headline, publishedAt: item.PublishedAt})
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	log.Debug().Int("headlines", len(headlines)).Int("feeds", len(s.feeds)).Msg("Collected trend headlines")
	return headlines
}
