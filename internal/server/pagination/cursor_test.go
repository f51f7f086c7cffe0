package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"autopress/publisher/internal/models"
)

func TestRoundTrip(t *testing.T) {
	a := models.Article{
		ID:        42,
		CreatedAt: time.Date(2026, 2, 14, 8, 30, 15, 123456789, time.UTC),
	}

	got, err := Decode(FromArticle(a).Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, a.CreatedAt)
	}
	if got.ID != 42 {
		t.Errorf("id = %d, want 42", got.ID)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!"},
		{"no separator", base64.URLEncoding.EncodeToString([]byte("justonepart"))},
		{"bad timestamp", base64.URLEncoding.EncodeToString([]byte("yesterday,5"))},
		{"bad id", base64.URLEncoding.EncodeToString([]byte("2026-02-14T08:30:15Z,five"))},
		{"non-positive id", base64.URLEncoding.EncodeToString([]byte("2026-02-14T08:30:15Z,0"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.cursor); err == nil {
				t.Errorf("Decode(%q) succeeded, want error", tc.cursor)
			}
		})
	}
}
