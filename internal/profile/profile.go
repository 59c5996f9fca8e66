// Package profile holds the process-wide configuration for the retrieval
// engine, loaded once at startup from environment variables.
package profile

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration for the retrieval engine process.
type Profile struct {
	// MemoryEnabled is the retrieval feature flag (RECALL_MEMORY_ENABLED).
	MemoryEnabled bool
	// EmbeddingModel is the embedding model name (RECALL_EMBEDDING_MODEL).
	// Empty disables embedding and therefore the whole feature.
	EmbeddingModel string
	// OpenAIAPIKey is the embedding provider credential (RECALL_OPENAI_API_KEY).
	OpenAIAPIKey string
	// OpenAIBaseURL is the provider endpoint (RECALL_OPENAI_BASE_URL).
	OpenAIBaseURL string
	// DSN points to the Postgres database holding memory items (RECALL_DSN).
	DSN string
}

// IsMemoryEnabled returns true when the feature flag is on and the embedding
// provider is fully configured. Retrieval has no degraded mode without a
// query vector, so a missing model or key disables the feature outright.
func (p *Profile) IsMemoryEnabled() bool {
	return p.MemoryEnabled && p.EmbeddingModel != "" && p.OpenAIAPIKey != ""
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.MemoryEnabled = parseEnabledFlag(os.Getenv("RECALL_MEMORY_ENABLED"))
	p.EmbeddingModel = getEnvOrDefault("RECALL_EMBEDDING_MODEL", "")
	p.OpenAIAPIKey = getEnvOrDefault("RECALL_OPENAI_API_KEY", "")
	p.OpenAIBaseURL = getEnvOrDefault("RECALL_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.DSN = getEnvOrDefault("RECALL_DSN", p.DSN)
}

// Validate reports configuration problems that would make the process
// unusable, so misconfiguration surfaces at startup instead of per request.
func (p *Profile) Validate() error {
	if p.DSN == "" {
		return errors.New("RECALL_DSN is required")
	}
	if p.MemoryEnabled && p.EmbeddingModel == "" {
		return errors.New("RECALL_EMBEDDING_MODEL is required when memory retrieval is enabled")
	}
	if p.MemoryEnabled && p.OpenAIAPIKey == "" {
		return errors.New("RECALL_OPENAI_API_KEY is required when memory retrieval is enabled")
	}
	return nil
}

// parseEnabledFlag interprets the feature flag value. "0", "false" and "off"
// (any case) disable; absence disables; any other value enables.
func parseEnabledFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
