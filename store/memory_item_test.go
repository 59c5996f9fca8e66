package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLineage(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected any
	}{
		{"nil passes through", nil, nil},
		{
			"JSON object string is decoded",
			`{"phase": "Release", "title": "Sprint 42"}`,
			map[string]any{"phase": "Release", "title": "Sprint 42"},
		},
		{
			"JSON array string is decoded",
			`["a", "b"]`,
			[]any{"a", "b"},
		},
		{"quoted JSON string is decoded", `"plain"`, "plain"},
		{"non-JSON string passes through as-is", "imported from confluence", "imported from confluence"},
		{"malformed JSON passes through as-is", "{not json", "{not json"},
		{
			"already-structured value passes through",
			map[string]any{"tags": []any{"x"}},
			map[string]any{"tags": []any{"x"}},
		},
		{
			"byte slice is treated as text",
			[]byte(`{"phase": "UAT"}`),
			map[string]any{"phase": "UAT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLineage(tt.raw))
		})
	}
}
