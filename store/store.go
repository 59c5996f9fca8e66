// Package store provides database access to stored memory items.
package store

import (
	"context"
	"database/sql"

	"github.com/deliveryos/recall/internal/profile"
)

// CandidateLimit is the hard cap on candidate rows fetched by both the
// lexical prefilter and the ANN search. It is the engine's only defense
// against unbounded memory use and must not be raised per call.
const CandidateLimit = 200

// Driver is the interface a store database driver implements.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// SearchMemoryItemIDs runs the lexical prefilter: a project-scoped
	// full-text match returning candidate IDs ordered by recency, capped at
	// limit. Returns an empty list when the schema has no full-text column.
	SearchMemoryItemIDs(ctx context.Context, projectID string, query string, limit int) ([]string, error)

	// ListMemoryItemsByIDs fetches the given memory items for a project,
	// restricted to rows with a stored embedding, capped at limit.
	ListMemoryItemsByIDs(ctx context.Context, projectID string, ids []string, limit int) ([]*MemoryItem, error)

	// VectorSearchMemoryItems fetches the nearest memory items to the query
	// vector for a project, ordered by vector distance ascending, capped at
	// limit.
	VectorSearchMemoryItems(ctx context.Context, projectID string, vector []float32, limit int) ([]*MemoryItem, error)
}

// Store provides access to stored memory items through a Driver.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

// GetDriver returns the underlying driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

// Close closes the underlying driver.
func (s *Store) Close() error {
	return s.driver.Close()
}

// SearchMemoryItemIDs runs the lexical prefilter.
func (s *Store) SearchMemoryItemIDs(ctx context.Context, projectID string, query string, limit int) ([]string, error) {
	return s.driver.SearchMemoryItemIDs(ctx, projectID, query, limit)
}

// ListMemoryItemsByIDs fetches memory items by ID.
func (s *Store) ListMemoryItemsByIDs(ctx context.Context, projectID string, ids []string, limit int) ([]*MemoryItem, error) {
	return s.driver.ListMemoryItemsByIDs(ctx, projectID, ids, limit)
}

// VectorSearchMemoryItems fetches the nearest memory items to the vector.
func (s *Store) VectorSearchMemoryItems(ctx context.Context, projectID string, vector []float32, limit int) ([]*MemoryItem, error) {
	return s.driver.VectorSearchMemoryItems(ctx, projectID, vector, limit)
}
