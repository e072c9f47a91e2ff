package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/callready/scriptd/common/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// orderFieldPattern restricts order-by fields to plain identifiers since the
// sort direction and field reach the SQL text.
var orderFieldPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// PostgresStore stores records as jsonb documents in a single relation
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Postgres-backed document store
func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Init creates the backing relation if it does not exist
func (s *PostgresStore) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Create inserts a new record and returns its assigned id
func (s *PostgresStore) Create(ctx context.Context, collection string, record map[string]any) (string, error) {
	id := uuid.NewString()

	data, err := marshalWithID(record, id)
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
		collection, id, data,
	)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	return id, nil
}

// Get retrieves a record by id
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", collection, err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode record %s/%s: %w", collection, id, err)
	}
	return record, nil
}

// Update replaces each key present in partial over the stored document;
// other keys are untouched. Last writer wins; concurrent updates are not
// serialized here.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select from %s: %w", collection, err)
	}

	merged, err := applyPartial(data, partial)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE documents SET data = $3 WHERE collection = $1 AND id = $2`,
		collection, id, merged,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record by id
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Query returns records matching the equality filters, ordered and paginated.
// Filtering and ordering run in SQL via jsonb containment; cursor skipping
// happens in-process because the cursor is an id, not a sort key.
func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]map[string]any, error) {
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	if !orderFieldPattern.MatchString(orderBy) {
		return nil, fmt.Errorf("invalid order field: %s", orderBy)
	}

	filters := q.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	filterJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("encode filters: %w", err)
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}

	// jsonb comparison orders numbers numerically and strings lexically;
	// timestamps are stored at fixed precision, so lexical order is
	// chronological for them too.
	sql := fmt.Sprintf(
		`SELECT data FROM documents WHERE collection = $1 AND data @> $2::jsonb ORDER BY data->$3 %s, id %s`,
		dir, dir,
	)

	// The SQL limit only applies when no cursor is set; with a cursor the
	// skip point is unknown until rows are scanned.
	if q.StartAfter == "" && q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.db.Query(ctx, sql, collection, filterJSON, orderBy)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var records []map[string]any
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	return applyCursor(records, q.StartAfter, q.Limit), nil
}

func marshalWithID(record map[string]any, id string) ([]byte, error) {
	withID := make(map[string]any, len(record)+1)
	for k, v := range record {
		withID[k] = v
	}
	withID["id"] = id

	data, err := json.Marshal(withID)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}
