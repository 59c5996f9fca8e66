package postgres

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// defaultVectorLimit is used when the caller-supplied limit is invalid.
	defaultVectorLimit = 200
	// maxVectorLimit caps the ANN row count regardless of the caller.
	maxVectorLimit = 500
	// vectorPrecision is the number of decimal digits per rendered component.
	vectorPrecision = 12
)

// BuildVectorQuery builds the approximate-nearest-neighbor query for a
// project's memory items, ordered by vector distance ascending.
//
// The query vector is rendered into the SQL text as a pgvector literal
// because the vector type has no driver-level parameter binding. This is the
// one deliberate exception to parameterized-query discipline in this
// repository; the sole defense is strict numeric sanitization here. The
// project id binds to $1 (supplied by the caller) and the returned args bind
// the remaining placeholders.
func BuildVectorQuery(vector []float32, limit int) (string, []any, error) {
	if len(vector) == 0 {
		return "", nil, errors.New("vector query requires a non-empty query vector")
	}

	if limit <= 0 {
		limit = defaultVectorLimit
	}
	if limit > maxVectorLimit {
		limit = maxVectorLimit
	}

	query := `
		SELECT id, project_id, text, source_type, lineage, created_at, embedding
		FROM memory_item
		WHERE project_id = $1
			AND embedding IS NOT NULL
		ORDER BY embedding <=> '` + vectorLiteral(vector) + `'::vector
		LIMIT $2`

	return query, []any{limit}, nil
}

// vectorLiteral renders the vector as a pgvector literal. Every component is
// written as a finite fixed-precision decimal; non-finite components render
// as 0 so malformed floats can never corrupt the query text.
func vectorLiteral(vector []float32) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		parts[i] = strconv.FormatFloat(f, 'f', vectorPrecision, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
