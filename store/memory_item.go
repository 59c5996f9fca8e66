package store

import (
	"encoding/json"
	"strings"
	"time"
)

// Known source types. The tag set is open-ended; unknown tags are valid and
// simply rank with the default prior.
const (
	SourceTypeDocs       = "docs"
	SourceTypeMeetings   = "meetings"
	SourceTypeSlack      = "slack"
	SourceTypeCSVRelease = "csv_release"
)

// MemoryItem is one stored memory row (document, meeting note, Slack
// message, release note). Rows are written by the ingestion pipeline; this
// package only reads them.
type MemoryItem struct {
	ID         string
	ProjectID  string
	Text       string
	SourceType string
	// Lineage is free-form metadata: an object, a string, or nil. It may
	// carry a phase, title, or tags list but none of those are guaranteed.
	Lineage any
	// CreatedAt is the item creation time. The zero value means the stored
	// timestamp could not be parsed.
	CreatedAt time.Time
	// Embedding is the stored vector. Nil means no embedding is present and
	// the item is excluded from scoring.
	Embedding []float32
}

// ParseLineage normalizes a raw lineage value. A string that looks like JSON
// is decoded; any other value is passed through as-is.
func ParseLineage(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []byte:
		return ParseLineage(string(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "\"") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				return decoded
			}
		}
		return v
	default:
		return raw
	}
}
