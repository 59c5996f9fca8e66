package postgres

import (
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	rerrors "github.com/deliveryos/recall/internal/errors"
)

func TestParseDelimitedVector(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []float32
	}{
		{"pgvector literal", "[1,0,0.5]", []float32{1, 0, 0.5}},
		{"postgres array", "{0.1,0.2}", []float32{0.1, 0.2}},
		{"bare delimited", "1, 2, 3", []float32{1, 2, 3}},
		{"empty string", "", nil},
		{"empty brackets", "[]", nil},
		{"non-numeric component drops embedding", "[1,x,3]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseDelimitedVector(tt.input))
		})
	}
}

func TestEmbeddingValueScan(t *testing.T) {
	var e embeddingValue
	assert.NoError(t, e.Scan(nil))
	assert.Nil(t, e.vec)

	assert.NoError(t, e.Scan([]byte("[1,0,0]")))
	assert.Equal(t, []float32{1, 0, 0}, e.vec)

	assert.NoError(t, e.Scan("0.25,0.75"))
	assert.Equal(t, []float32{0.25, 0.75}, e.vec)

	assert.NoError(t, e.Scan(int64(7)))
	assert.Nil(t, e.vec)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind rerrors.Kind
	}{
		{
			"undefined table maps to not provisioned",
			&pq.Error{Code: "42P01", Message: `relation "memory_item" does not exist`},
			rerrors.KindStorageNotProvisioned,
		},
		{
			"undefined type maps to vector unavailable",
			&pq.Error{Code: "42704", Message: `type "vector" does not exist`},
			rerrors.KindVectorSearchUnavailable,
		},
		{
			"undefined operator maps to vector unavailable",
			&pq.Error{Code: "42883", Message: `operator does not exist: vector <=> vector`},
			rerrors.KindVectorSearchUnavailable,
		},
		{
			"other pq error maps to retrieval failed",
			&pq.Error{Code: "53300", Message: "too many connections"},
			rerrors.KindRetrievalFailed,
		},
		{
			"plain error maps to retrieval failed",
			errors.New("connection refused"),
			rerrors.KindRetrievalFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translated := translateError(tt.err, "failed")
			assert.True(t, rerrors.IsKind(translated, tt.kind))
		})
	}
}

func TestTranslateErrorKeepsCause(t *testing.T) {
	cause := &pq.Error{Code: "42P01"}
	translated := translateError(cause, "failed")

	var pqErr *pq.Error
	assert.ErrorAs(t, translated, &pqErr)
}

func TestIdentPattern(t *testing.T) {
	assert.True(t, identPattern.MatchString("text_search"))
	assert.True(t, identPattern.MatchString("tsv"))
	assert.False(t, identPattern.MatchString(""))
	assert.False(t, identPattern.MatchString(`col"; DROP TABLE memory_item; --`))
	assert.False(t, identPattern.MatchString("col name"))
}
