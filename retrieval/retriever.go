// Package retrieval implements the hybrid memory retrieval engine: given a
// free-text query scoped to one project, it returns the top-K stored memory
// items ranked by a fixed-weight combination of semantic similarity, recency
// decay, source-type priors, and delivery-phase relevance.
//
// Candidates come from a two-stage strategy: a best-effort lexical prefilter
// narrows the set, and when it yields nothing the engine falls back to an
// approximate-nearest-neighbor search over the stored embeddings.
package retrieval

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deliveryos/recall/ai"
	rerrors "github.com/deliveryos/recall/internal/errors"
	"github.com/deliveryos/recall/store"
)

const (
	// DefaultK is the result count when the caller does not request one.
	DefaultK = 8
	// MaxK caps the requested result count.
	MaxK = 50
)

// Config is the fixed process configuration for the retriever, constructed
// once at startup and read-only thereafter.
type Config struct {
	// Enabled is the retrieval feature flag.
	Enabled bool
	// EmbeddingModel is the configured embedding model name. Empty disables
	// the feature: there is no degraded mode without a query vector.
	EmbeddingModel string
}

// RetrieveInput is one retrieval request.
type RetrieveInput struct {
	ProjectID string  `json:"project_id"`
	Query     string  `json:"query"`
	K         int     `json:"k,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Filters   Filters `json:"filters,omitempty"`
}

// RetrieveContext is one ranked result row.
type RetrieveContext struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	SourceType string  `json:"source_type"`
	Lineage    any     `json:"lineage"`
	Score      float64 `json:"score"`
}

// RetrieveDebug carries per-call diagnostics. It is not part of the stable
// contract but the test suite and operators rely on it.
type RetrieveDebug struct {
	Weights        Weights `json:"weights"`
	K              int     `json:"k"`
	CandidateCount int     `json:"candidate_count"`
	LexicalCount   int     `json:"lexical_count"`
	FilteredCount  int     `json:"filtered_count"`
	ReturnedCount  int     `json:"returned_count"`
	UsedLexical    bool    `json:"used_lexical"`
	DurationMs     int64   `json:"duration_ms"`
}

// Result is the retrieval response.
type Result struct {
	Contexts []RetrieveContext `json:"contexts"`
	Debug    RetrieveDebug     `json:"debug"`
}

// Retriever is the public entry point of the engine. It is stateless across
// calls and safe for concurrent use.
type Retriever struct {
	config   Config
	store    *store.Store
	embedder ai.EmbeddingService
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Retriever.
type Option func(*Retriever)

// WithClock fixes the retriever's notion of "now". Tests use this to make
// recency scoring deterministic.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) {
		r.now = now
	}
}

// New creates a Retriever. The store and embedder are injected so tests can
// substitute deterministic doubles. A nil logger falls back to slog.Default.
func New(config Config, st *store.Store, embedder ai.EmbeddingService, logger *slog.Logger, opts ...Option) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Retriever{
		config:   config,
		store:    st,
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve runs the full pipeline: validate, embed the query, lexical
// prefilter, candidate fetch (by prefilter IDs or ANN fallback), filter,
// score, truncate to K. Given identical stored data, input, and clock, the
// result is identical across calls.
func (r *Retriever) Retrieve(ctx context.Context, input *RetrieveInput) (*Result, error) {
	start := time.Now()
	now := r.now()
	requestID := uuid.New().String()

	if !r.config.Enabled || r.config.EmbeddingModel == "" || r.embedder == nil || !r.embedder.IsEnabled() {
		return nil, rerrors.Disabled("memory retrieval is not enabled")
	}
	if input == nil {
		return nil, rerrors.InvalidArgument("input is required")
	}

	projectID := strings.TrimSpace(input.ProjectID)
	if projectID == "" {
		return nil, rerrors.InvalidArgument("project_id is required")
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, rerrors.InvalidArgument("query is required")
	}

	k := clampK(input.K)
	phase, _ := ParsePhase(input.Phase)

	// The query is embedded exactly once, before either storage path runs.
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		var re *rerrors.RetrievalError
		if !stderrors.As(err, &re) {
			err = rerrors.EmbeddingUnavailable("failed to embed query", err)
		}
		return nil, err
	}
	if len(vector) == 0 {
		return nil, rerrors.EmbeddingUnavailable("embedding provider returned an empty vector", nil)
	}

	// Lexical prefilter is best-effort: any failure degrades to ANN-only.
	lexicalIDs, err := r.store.SearchMemoryItemIDs(ctx, projectID, query, store.CandidateLimit)
	if err != nil {
		r.logger.Debug("lexical prefilter degraded to ANN-only",
			slog.String("request_id", requestID),
			slog.String("project_id", projectID),
			slog.String("error", err.Error()))
		lexicalIDs = nil
	}

	var candidates []*store.MemoryItem
	usedLexical := len(lexicalIDs) > 0
	if usedLexical {
		candidates, err = r.store.ListMemoryItemsByIDs(ctx, projectID, lexicalIDs, store.CandidateLimit)
	} else {
		candidates, err = r.store.VectorSearchMemoryItems(ctx, projectID, vector, store.CandidateLimit)
	}
	if err != nil {
		return nil, err
	}

	filtered := applyFilters(candidates, input.Filters, now)
	scored := scoreCandidates(filtered, vector, phase, now)
	if len(scored) > k {
		scored = scored[:k]
	}

	contexts := make([]RetrieveContext, 0, len(scored))
	for _, sc := range scored {
		contexts = append(contexts, RetrieveContext{
			ID:         sc.item.ID,
			Text:       sc.item.Text,
			SourceType: sc.item.SourceType,
			Lineage:    sc.item.Lineage,
			Score:      sc.score,
		})
	}

	result := &Result{
		Contexts: contexts,
		Debug: RetrieveDebug{
			Weights:        scoreWeights,
			K:              k,
			CandidateCount: len(candidates),
			LexicalCount:   len(lexicalIDs),
			FilteredCount:  len(filtered),
			ReturnedCount:  len(contexts),
			UsedLexical:    usedLexical,
			DurationMs:     time.Since(start).Milliseconds(),
		},
	}

	r.logSummary(requestID, projectID, result)
	return result, nil
}

// clampK normalizes the requested result count into [1, MaxK], defaulting
// when absent or invalid.
func clampK(k int) int {
	if k <= 0 {
		return DefaultK
	}
	if k > MaxK {
		return MaxK
	}
	return k
}

// logSummary emits the one-line per-call diagnostic. A logging failure must
// never fail the retrieval.
func (r *Retriever) logSummary(requestID, projectID string, result *Result) {
	defer func() {
		_ = recover()
	}()
	r.logger.Info("memory retrieval completed",
		slog.String("request_id", requestID),
		slog.String("project_id", projectID),
		slog.Int("candidates", result.Debug.CandidateCount),
		slog.Int("filtered", result.Debug.FilteredCount),
		slog.Int("returned", result.Debug.ReturnedCount),
		slog.Bool("used_lexical", result.Debug.UsedLexical),
		slog.Int64("duration_ms", result.Debug.DurationMs))
}
