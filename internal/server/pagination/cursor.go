// Package pagination implements the opaque cursor used by the article
// listing. A cursor pins the (created_at, id) pair of the last article the
// client saw, so paging stays stable while the pipeline appends new rows.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"autopress/publisher/internal/models"
)

const separator = ","
const timeFormat = time.RFC3339Nano

// Cursor identifies the last article of a served page.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// FromArticle builds the cursor pointing at a.
func FromArticle(a models.Article) Cursor {
	return Cursor{CreatedAt: a.CreatedAt.UTC(), ID: a.ID}
}

// Encode packs the cursor into an opaque string for the next_cursor field.
func (c Cursor) Encode() string {
	key := fmt.Sprintf("%s%s%d", c.CreatedAt.UTC().Format(timeFormat), separator, c.ID)
	return base64.URLEncoding.EncodeToString([]byte(key))
}

// Decode unpacks a cursor produced by Encode.
func Decode(cursor string) (Cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	parts := strings.SplitN(string(raw), separator, 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid cursor format")
	}

	ts, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid timestamp in cursor: %w", err)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return Cursor{}, fmt.Errorf("invalid article id in cursor")
	}

	return Cursor{CreatedAt: ts.UTC(), ID: id}, nil
}
