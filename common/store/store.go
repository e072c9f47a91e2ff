package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ErrNotFound is returned when a record does not exist in a collection
var ErrNotFound = errors.New("record not found")

// Query describes a filtered, ordered, paginated read over a collection.
// Filters are combined as an equality conjunction.
type Query struct {
	Filters    map[string]any
	OrderBy    string
	Descending bool
	Limit      int
	StartAfter string // cursor: results begin after the record with this id
}

// DocumentStore is the persistence contract: schemaless records keyed by
// opaque ids, grouped into named collections. Records are plain JSON-shaped
// maps; the store assigns ids on Create. Update replaces each provided
// top-level key wholesale — it never deep-merges nested values.
type DocumentStore interface {
	Create(ctx context.Context, collection string, record map[string]any) (string, error)
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Update(ctx context.Context, collection, id string, partial map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, q Query) ([]map[string]any, error)
}

// applyPartial replaces each top-level key of the stored document with the
// value from partial; keys absent from partial are untouched. The patch is a
// sequence of RFC 6902 add operations, one per key — add on an object member
// replaces it wholesale, so callers shrinking a nested map get exactly what
// they wrote, not a deep merge that resurrects removed entries.
func applyPartial(data []byte, partial map[string]any) ([]byte, error) {
	ops := make([]map[string]any, 0, len(partial))
	for key, value := range partial {
		ops = append(ops, map[string]any{
			"op":    "add",
			"path":  "/" + escapePointer(key),
			"value": value,
		})
	}

	encoded, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	merged, err := patch.Apply(data)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return merged, nil
}

// escapePointer escapes a key for use in an RFC 6901 JSON pointer
func escapePointer(key string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(key)
}

// applyCursor drops everything up to and including the record whose id is
// startAfter, then applies limit. Used by implementations that page in-process.
func applyCursor(records []map[string]any, startAfter string, limit int) []map[string]any {
	if startAfter != "" {
		idx := -1
		for i, rec := range records {
			if id, _ := rec["id"].(string); id == startAfter {
				idx = i
				break
			}
		}
		if idx >= 0 {
			records = records[idx+1:]
		}
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
