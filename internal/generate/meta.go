package generate

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Derived article metadata. These are deliberately simple, documented
// heuristics computed from the final content.

const (
	excerptMaxChars    = 150
	keywordCount       = 5
	wordsPerMinute     = 200
	minKeywordTokenLen = 3
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Excerpt returns the first paragraph truncated to 150 characters.
func Excerpt(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	paragraph := content
	if idx := strings.Index(content, "\n\n"); idx >= 0 {
		paragraph = content[:idx]
	} else if idx := strings.Index(content, "\n"); idx >= 0 {
		paragraph = content[:idx]
	}
	paragraph = strings.TrimSpace(paragraph)

	if utf8.RuneCountInString(paragraph) <= excerptMaxChars {
		return paragraph
	}
	runes := []rune(paragraph)
	return string(runes[:excerptMaxChars])
}

// ExtractKeywords returns the five most frequent word-like tokens in the
// content, most frequent first, ties broken by first appearance.
func ExtractKeywords(content string) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(content), -1)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, tok := range tokens {
		if utf8.RuneCountInString(tok) < minKeywordTokenLen {
			continue
		}
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
		}
		counts[tok]++
	}

	unique := make([]string, 0, len(counts))
	for tok := range counts {
		unique = append(unique, tok)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return firstSeen[unique[i]] < firstSeen[unique[j]]
	})

	if len(unique) > keywordCount {
		unique = unique[:keywordCount]
	}
	return unique
}

// ReadingTime estimates reading time in minutes at 200 words per minute,
// rounded up, never below one minute for non-empty content.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// SEOScore is a rough 0-100 quality signal: a base of 50, plus points for
// reasonable length, a concise title, an excerpt and extractable keywords.
func SEOScore(title, content string) int {
	score := 50

	if len(strings.Fields(content)) >= 300 {
		score += 20
	}
	if n := utf8.RuneCountInString(title); n > 0 && n <= 60 {
		score += 10
	}
	if Excerpt(content) != "" {
		score += 10
	}
	if len(ExtractKeywords(content)) >= 3 {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}
