package schedule

import (
	"errors"
	"math/rand"
)

// ErrNoKeywordsConfigured is returned when a schedule's keyword pool is
// empty. An empty pool is a runtime failure, not a config-time rejection.
var ErrNoKeywordsConfigured = errors.New("no keywords configured")

// SelectKeyword picks the next keyword from the pool, uniformly at random
// among those not yet present in used. When every keyword in the pool has
// been used the pool is treated as freshly reset and the draw covers the
// full pool again; no reset event is persisted.
//
// A nil rng uses the shared global source.
func SelectKeyword(pool []string, used []string, rng *rand.Rand) (string, error) {
	if len(pool) == 0 {
		return "", ErrNoKeywordsConfigured
	}

	usedSet := make(map[string]struct{}, len(used))
	for _, k := range used {
		usedSet[k] = struct{}{}
	}

	available := make([]string, 0, len(pool))
	for _, k := range pool {
		if _, ok := usedSet[k]; !ok {
			available = append(available, k)
		}
	}

	if len(available) == 0 {
		available = pool
	}

	if rng != nil {
		return available[rng.Intn(len(available))], nil
	}
	return available[rand.Intn(len(available))], nil
}
