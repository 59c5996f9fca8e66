package retrieval

import (
	"time"

	"github.com/deliveryos/recall/store"
)

// Filters are the caller-supplied candidate constraints. Zero values are
// no-ops.
type Filters struct {
	// SourceTypes is an allow-list of source type tags.
	SourceTypes []string `json:"source_type,omitempty"`
	// SinceDays keeps only items created within that many days of now.
	SinceDays int `json:"since_days,omitempty"`
}

// applyFilters returns the candidates that satisfy the filters, preserving
// input order.
func applyFilters(items []*store.MemoryItem, filters Filters, now time.Time) []*store.MemoryItem {
	allowed := make(map[string]bool, len(filters.SourceTypes))
	for _, sourceType := range filters.SourceTypes {
		allowed[sourceType] = true
	}

	var cutoff time.Time
	if filters.SinceDays > 0 {
		cutoff = now.AddDate(0, 0, -filters.SinceDays)
	}

	kept := make([]*store.MemoryItem, 0, len(items))
	for _, item := range items {
		if !cutoff.IsZero() && item.CreatedAt.Before(cutoff) {
			continue
		}
		if len(allowed) > 0 && !allowed[item.SourceType] {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
