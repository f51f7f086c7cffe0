package generate

import "testing"

func TestSplitTitleContent(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantTitle   string
		wantContent string
	}{
		{
			name:        "heading marker stripped",
			raw:         "# My Title\nBody line 1\nBody line 2",
			wantTitle:   "My Title",
			wantContent: "Body line 1\nBody line 2",
		},
		{
			name:        "plain first line",
			raw:         "My Title\nBody",
			wantTitle:   "My Title",
			wantContent: "Body",
		},
		{
			name:        "deep heading",
			raw:         "### Deep Title\nBody",
			wantTitle:   "Deep Title",
			wantContent: "Body",
		},
		{
			name:        "no newline degenerates to empty content",
			raw:         "## Just a title",
			wantTitle:   "Just a title",
			wantContent: "",
		},
		{
			name:        "surrounding whitespace trimmed",
			raw:         "\n\n# Title\n\nBody paragraph.\n",
			wantTitle:   "Title",
			wantContent: "Body paragraph.",
		},
		{
			name:        "empty input",
			raw:         "",
			wantTitle:   "",
			wantContent: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content := SplitTitleContent(tt.raw)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if content != tt.wantContent {
				t.Errorf("content = %q, want %q", content, tt.wantContent)
			}
		})
	}
}
