package generate

import "strings"

// SplitTitleContent separates the raw generation text into a title and a
// body. The first line, with any leading Markdown heading markers removed,
// becomes the title; the rest is the content. Text without a newline
// yields an empty content, which callers accept as a degenerate article.
func SplitTitleContent(raw string) (title, content string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}

	first, rest, found := strings.Cut(raw, "\n")
	title = stripHeadingMarkers(first)
	if !found {
		return title, ""
	}
	return title, strings.TrimSpace(rest)
}

func stripHeadingMarkers(line string) string {
	line = strings.TrimSpace(line)
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}
