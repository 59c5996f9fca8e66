package retrieval

import (
	"math"
	"sort"
	"time"

	"github.com/deliveryos/recall/store"
)

// Weights are the fixed signal weights. They are constants of the engine,
// not per-call configuration, and sum to 1.0 so the combined score stays in
// [0, 1].
type Weights struct {
	Semantic   float64 `json:"semantic"`
	Recency    float64 `json:"recency"`
	SourceType float64 `json:"source_type"`
	Phase      float64 `json:"phase"`
}

var scoreWeights = Weights{
	Semantic:   0.45,
	Recency:    0.25,
	SourceType: 0.20,
	Phase:      0.10,
}

// recencyDecayDays is the time constant of the exponential recency decay.
const recencyDecayDays = 90.0

// sourceTypePriors biases ranking by where a memory item originated.
var sourceTypePriors = map[string]float64{
	store.SourceTypeDocs:       1.0,
	store.SourceTypeMeetings:   0.95,
	store.SourceTypeSlack:      0.9,
	store.SourceTypeCSVRelease: 0.85,
}

const defaultSourcePrior = 0.8

type scoredCandidate struct {
	item  *store.MemoryItem
	score float64
}

// scoreCandidates computes the combined score for every usable candidate and
// returns them sorted by score descending. Candidates without an embedding,
// or whose embedding dimensionality differs from the query vector, are
// excluded entirely: their cosine similarity would be meaningless. The sort
// is stable so equal scores keep input order and results stay reproducible.
func scoreCandidates(items []*store.MemoryItem, queryVector []float32, phase Phase, now time.Time) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(items))
	for _, item := range items {
		if len(item.Embedding) == 0 || len(item.Embedding) != len(queryVector) {
			continue
		}

		score := semanticScore(queryVector, item.Embedding)*scoreWeights.Semantic +
			recencyScore(item.CreatedAt, now)*scoreWeights.Recency +
			sourceTypeScore(item.SourceType)*scoreWeights.SourceType +
			phaseHintScore(item, phase)*scoreWeights.Phase

		scored = append(scored, scoredCandidate{item: item, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// semanticScore remaps cosine similarity from [-1, 1] to [0, 1]. Non-finite
// results (zero vectors) clamp to 0.
func semanticScore(query, embedding []float32) float64 {
	score := (cosineSimilarity(query, embedding) + 1) / 2
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return clamp01(score)
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// recencyScore decays exponentially with age. Items with an unparsable
// timestamp score a neutral 0.5; items dated in the future score 1.
func recencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5
	}
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return clamp01(math.Exp(-ageDays / recencyDecayDays))
}

func sourceTypeScore(sourceType string) float64 {
	if prior, ok := sourceTypePriors[sourceType]; ok {
		return prior
	}
	return defaultSourcePrior
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
