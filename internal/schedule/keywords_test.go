package schedule

import (
	"errors"
	"math/rand"
	"testing"
)

func TestSelectKeywordEmptyPool(t *testing.T) {
	_, err := SelectKeyword(nil, nil, nil)
	if !errors.Is(err, ErrNoKeywordsConfigured) {
		t.Errorf("SelectKeyword(empty pool) error = %v, want ErrNoKeywordsConfigured", err)
	}
}

func TestSelectKeywordAvoidsUsed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := []string{"go", "rust", "zig"}
	used := []string{"go", "zig"}

	for i := 0; i < 20; i++ {
		got, err := SelectKeyword(pool, used, rng)
		if err != nil {
			t.Fatalf("SelectKeyword() unexpected error: %v", err)
		}
		if got != "rust" {
			t.Fatalf("SelectKeyword() = %q, want the only unused keyword %q", got, "rust")
		}
	}
}

func TestSelectKeywordExhaustionResets(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := []string{"a", "b", "c"}

	// Simulate a full rotation: each selection appended to used.
	var used []string
	seen := make(map[string]bool)
	for i := 0; i < len(pool); i++ {
		got, err := SelectKeyword(pool, used, rng)
		if err != nil {
			t.Fatalf("SelectKeyword() unexpected error: %v", err)
		}
		if seen[got] {
			t.Fatalf("SelectKeyword() repeated %q before exhausting the pool", got)
		}
		seen[got] = true
		used = append(used, got)
	}

	// Pool exhausted: the (N+1)th draw must come from the full pool, not fail.
	got, err := SelectKeyword(pool, used, rng)
	if err != nil {
		t.Fatalf("SelectKeyword() after exhaustion unexpected error: %v", err)
	}
	if !seen[got] {
		t.Fatalf("SelectKeyword() after exhaustion = %q, not in pool %v", got, pool)
	}
}

func TestSelectKeywordIgnoresUnknownUsed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// History may contain keywords removed from the pool since.
	got, err := SelectKeyword([]string{"only"}, []string{"stale", "gone"}, rng)
	if err != nil {
		t.Fatalf("SelectKeyword() unexpected error: %v", err)
	}
	if got != "only" {
		t.Errorf("SelectKeyword() = %q, want %q", got, "only")
	}
}
