// Package errors defines the structured error taxonomy for the retrieval
// engine. Callers branch on the kind (or the HTTP-like status) rather than
// on error strings.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies a specific failure class of a retrieval call.
type Kind string

const (
	// KindDisabled indicates the retrieval feature is turned off or the
	// embedding provider is not configured.
	KindDisabled Kind = "DISABLED"
	// KindInvalidArgument indicates invalid caller input.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindStorageNotProvisioned indicates the memory item table is absent.
	KindStorageNotProvisioned Kind = "STORAGE_NOT_PROVISIONED"
	// KindVectorSearchUnavailable indicates the vector type/operator is absent.
	KindVectorSearchUnavailable Kind = "VECTOR_SEARCH_UNAVAILABLE"
	// KindRetrievalFailed indicates any other storage failure.
	KindRetrievalFailed Kind = "RETRIEVAL_FAILED"
	// KindEmbeddingUnavailable indicates the embedding provider call failed
	// or returned an unusable vector.
	KindEmbeddingUnavailable Kind = "EMBEDDING_UNAVAILABLE"
)

// Status returns the HTTP-like status associated with the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidArgument:
		return 400
	case KindRetrievalFailed:
		return 500
	default:
		return 503
	}
}

// RetrievalError is the structured error surfaced by the retrieval engine.
type RetrievalError struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// New creates a RetrievalError of the given kind.
func New(kind Kind, msg string) *RetrievalError {
	return &RetrievalError{Kind: kind, Status: kind.Status(), Message: msg}
}

// Wrap creates a RetrievalError of the given kind around an existing error.
func Wrap(cause error, kind Kind, msg string) *RetrievalError {
	return &RetrievalError{Kind: kind, Status: kind.Status(), Message: msg, Cause: cause}
}

// Convenience constructors for common kinds.

// Disabled creates a disabled-feature error.
func Disabled(msg string) *RetrievalError {
	return New(KindDisabled, msg)
}

// InvalidArgument creates an invalid input error.
func InvalidArgument(msg string) *RetrievalError {
	return New(KindInvalidArgument, msg)
}

// EmbeddingUnavailable creates an embedding provider error.
func EmbeddingUnavailable(msg string, cause error) *RetrievalError {
	return Wrap(cause, KindEmbeddingUnavailable, msg)
}

// IsKind reports whether err is a RetrievalError of the given kind,
// unwrapping as needed.
func IsKind(err error, kind Kind) bool {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// KindOf extracts the kind from any error, returning the provided default
// when the error does not carry one.
func KindOf(err error, def Kind) Kind {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Kind
	}
	return def
}
