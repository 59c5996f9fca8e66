package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	rerrors "github.com/deliveryos/recall/internal/errors"
	"github.com/deliveryos/recall/store"
)

// Lexical prefilter column discovery. The full-text-indexed column is found
// by schema introspection once per process and cached; the cache is
// invalidated only by the test reset hook.
var (
	lexicalColumnMu     sync.Mutex
	lexicalColumnCached bool
	lexicalColumnName   string
)

// identPattern whitelists identifiers discovered via introspection before
// they are interpolated into SQL. Introspected names are metadata, not
// static code, and are never trusted for direct interpolation.
var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ResetLexicalColumnCache clears the cached full-text column name. Tests use
// this to force rediscovery against a different schema.
func ResetLexicalColumnCache() {
	lexicalColumnMu.Lock()
	defer lexicalColumnMu.Unlock()
	lexicalColumnCached = false
	lexicalColumnName = ""
}

// lexicalColumn returns the tsvector column of the memory item table, or ""
// when the schema has none. Discovery failures are not cached so a transient
// error does not permanently disable the lexical path.
func (d *DB) lexicalColumn(ctx context.Context) (string, error) {
	lexicalColumnMu.Lock()
	defer lexicalColumnMu.Unlock()

	if lexicalColumnCached {
		return lexicalColumnName, nil
	}

	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = 'memory_item'
			AND udt_name = 'tsvector'
		ORDER BY ordinal_position
		LIMIT 1`

	var name string
	err := d.db.QueryRowContext(ctx, query).Scan(&name)
	if err == sql.ErrNoRows {
		lexicalColumnCached = true
		lexicalColumnName = ""
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to discover full-text column")
	}
	if !identPattern.MatchString(name) {
		return "", errors.Errorf("discovered full-text column has unsafe name: %q", name)
	}

	lexicalColumnCached = true
	lexicalColumnName = name
	return name, nil
}

// SearchMemoryItemIDs runs the project-scoped lexical prefilter. When the
// schema exposes no tsvector column the result is empty without error; the
// caller falls back to pure ANN search.
func (d *DB) SearchMemoryItemIDs(ctx context.Context, projectID string, query string, limit int) ([]string, error) {
	column, err := d.lexicalColumn(ctx)
	if err != nil {
		return nil, err
	}
	if column == "" {
		return nil, nil
	}
	if limit <= 0 || limit > store.CandidateLimit {
		limit = store.CandidateLimit
	}

	// The column name is introspected and whitelist-sanitized above; all
	// caller values remain bound parameters.
	stmt := `
		SELECT id
		FROM memory_item
		WHERE project_id = ` + placeholder(1) + `
			AND ` + column + ` @@ plainto_tsquery('simple', ` + placeholder(2) + `)
		ORDER BY created_at DESC
		LIMIT ` + placeholder(3)

	rows, err := d.db.QueryContext(ctx, stmt, projectID, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run lexical prefilter")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan memory item id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// ListMemoryItemsByIDs fetches memory items by ID for a project, restricted
// to rows that have a stored embedding.
func (d *DB) ListMemoryItemsByIDs(ctx context.Context, projectID string, ids []string, limit int) ([]*store.MemoryItem, error) {
	if len(ids) == 0 {
		return []*store.MemoryItem{}, nil
	}
	if limit <= 0 || limit > store.CandidateLimit {
		limit = store.CandidateLimit
	}

	stmt := `
		SELECT id, project_id, text, source_type, lineage, created_at, embedding
		FROM memory_item
		WHERE project_id = ` + placeholder(1) + `
			AND id = ANY(` + placeholder(2) + `)
			AND embedding IS NOT NULL
		LIMIT ` + placeholder(3)

	rows, err := d.db.QueryContext(ctx, stmt, projectID, pq.Array(ids), limit)
	if err != nil {
		return nil, translateError(err, "failed to fetch memory items by id")
	}
	defer rows.Close()

	return scanMemoryItems(rows)
}

// VectorSearchMemoryItems fetches the nearest memory items to the query
// vector for a project.
func (d *DB) VectorSearchMemoryItems(ctx context.Context, projectID string, vector []float32, limit int) ([]*store.MemoryItem, error) {
	stmt, args, err := BuildVectorQuery(vector, limit)
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.KindRetrievalFailed, "failed to build vector query")
	}

	rows, err := d.db.QueryContext(ctx, stmt, append([]any{projectID}, args...)...)
	if err != nil {
		return nil, translateError(err, "failed to run vector search")
	}
	defer rows.Close()

	return scanMemoryItems(rows)
}

func scanMemoryItems(rows *sql.Rows) ([]*store.MemoryItem, error) {
	list := []*store.MemoryItem{}
	for rows.Next() {
		var item store.MemoryItem
		var lineage any
		var createdAt sql.NullTime
		var embedding embeddingValue

		err := rows.Scan(
			&item.ID,
			&item.ProjectID,
			&item.Text,
			&item.SourceType,
			&lineage,
			&createdAt,
			&embedding,
		)
		if err != nil {
			return nil, translateError(err, "failed to scan memory item")
		}

		item.Lineage = store.ParseLineage(lineage)
		if createdAt.Valid {
			item.CreatedAt = createdAt.Time
		}
		item.Embedding = embedding.vec

		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to read memory items")
	}

	return list, nil
}

// embeddingValue scans a stored embedding that may arrive as a native
// pgvector value or as a delimited string. Unparsable values scan as absent
// rather than failing the row.
type embeddingValue struct {
	vec []float32
}

func (e *embeddingValue) Scan(src any) error {
	if src == nil {
		e.vec = nil
		return nil
	}

	var v pgvector.Vector
	if err := v.Scan(src); err == nil {
		e.vec = v.Slice()
		return nil
	}

	switch s := src.(type) {
	case []byte:
		e.vec = parseDelimitedVector(string(s))
	case string:
		e.vec = parseDelimitedVector(s)
	default:
		e.vec = nil
	}
	return nil
}

// parseDelimitedVector parses "[1,2,3]", "{1,2,3}" or "1,2,3" renderings.
// Any non-numeric component makes the whole embedding absent.
func parseDelimitedVector(s string) []float32 {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "[]{}()")
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil
		}
		vec = append(vec, float32(f))
	}
	return vec
}

// Postgres error codes that the retrieval pipeline branches on.
const (
	pqCodeUndefinedTable    = "42P01"
	pqCodeUndefinedObject   = "42704"
	pqCodeUndefinedFunction = "42883"
)

// translateError maps storage failures onto the retrieval error taxonomy:
// missing table, missing vector type/operator, or a generic retrieval
// failure. The three kinds stay distinguishable for the caller.
func translateError(err error, msg string) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqCodeUndefinedTable:
			return rerrors.Wrap(err, rerrors.KindStorageNotProvisioned, "memory item storage is not provisioned")
		case pqCodeUndefinedObject, pqCodeUndefinedFunction:
			return rerrors.Wrap(err, rerrors.KindVectorSearchUnavailable, "vector search is not available")
		}
	}
	return rerrors.Wrap(err, rerrors.KindRetrievalFailed, msg)
}
