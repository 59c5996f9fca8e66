package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindDisabled, 503},
		{KindInvalidArgument, 400},
		{KindStorageNotProvisioned, 503},
		{KindVectorSearchUnavailable, 503},
		{KindRetrievalFailed, 500},
		{KindEmbeddingUnavailable, 503},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
			assert.Equal(t, tt.status, New(tt.kind, "boom").Status)
		})
	}
}

func TestIsKind(t *testing.T) {
	err := New(KindDisabled, "retrieval disabled")
	assert.True(t, IsKind(err, KindDisabled))
	assert.False(t, IsKind(err, KindRetrievalFailed))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindDisabled))

	// Kind survives wrapping with %w.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsKind(wrapped, KindDisabled))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindRetrievalFailed, KindOf(fmt.Errorf("plain"), KindRetrievalFailed))
	assert.Equal(t, KindInvalidArgument, KindOf(InvalidArgument("empty query"), KindRetrievalFailed))
}

func TestErrorString(t *testing.T) {
	err := Wrap(fmt.Errorf("relation does not exist"), KindStorageNotProvisioned, "memory item table missing")
	assert.Contains(t, err.Error(), "STORAGE_NOT_PROVISIONED")
	assert.Contains(t, err.Error(), "relation does not exist")
	assert.Equal(t, "relation does not exist", err.Unwrap().Error())
}
