package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deliveryos/recall/store"
)

func testItems(now time.Time) []*store.MemoryItem {
	return []*store.MemoryItem{
		{ID: "fresh-docs", SourceType: "docs", CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "old-slack", SourceType: "slack", CreatedAt: now.AddDate(0, 0, -120)},
		{ID: "recent-meeting", SourceType: "meetings", CreatedAt: now.AddDate(0, 0, -10)},
		{ID: "undated", SourceType: "docs"},
	}
}

func TestApplyFiltersNoFilters(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	items := testItems(now)

	kept := applyFilters(items, Filters{}, now)
	assert.Equal(t, items, kept, "absent filters are no-ops")
}

func TestApplyFiltersSourceTypes(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	kept := applyFilters(testItems(now), Filters{SourceTypes: []string{"docs", "meetings"}}, now)
	require.Len(t, kept, 3)
	assert.Equal(t, "fresh-docs", kept[0].ID)
	assert.Equal(t, "recent-meeting", kept[1].ID)
	assert.Equal(t, "undated", kept[2].ID)
}

func TestApplyFiltersSinceDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	kept := applyFilters(testItems(now), Filters{SinceDays: 30}, now)
	require.Len(t, kept, 2)
	assert.Equal(t, "fresh-docs", kept[0].ID)
	assert.Equal(t, "recent-meeting", kept[1].ID)
}

func TestApplyFiltersSinceDaysBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	items := []*store.MemoryItem{
		{ID: "at-cutoff", CreatedAt: now.AddDate(0, 0, -30)},
		{ID: "just-past", CreatedAt: now.AddDate(0, 0, -30).Add(-time.Second)},
	}

	kept := applyFilters(items, Filters{SinceDays: 30}, now)
	require.Len(t, kept, 1)
	assert.Equal(t, "at-cutoff", kept[0].ID)
}

func TestApplyFiltersCombined(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	kept := applyFilters(testItems(now), Filters{SourceTypes: []string{"slack"}, SinceDays: 30}, now)
	assert.Empty(t, kept)
}
