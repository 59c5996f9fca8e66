package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deliveryos/recall/internal/errors"
)

func TestProviderIsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		enabled bool
	}{
		{"nil config", nil, false},
		{"no key", &Config{EmbeddingModel: "text-embedding-3-small"}, false},
		{"no model", &Config{APIKey: "sk-test", EmbeddingModel: ""}, false},
		{"configured", &Config{APIKey: "sk-test", EmbeddingModel: "text-embedding-3-small"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, NewProvider(tt.cfg).IsEnabled())
		})
	}
}

func TestEmbedUnconfiguredFailsClosed(t *testing.T) {
	p := NewProvider(&Config{})
	vec, err := p.Embed(context.Background(), "release notes")
	assert.Nil(t, vec)
	assert.True(t, errors.IsKind(err, errors.KindDisabled))
}
