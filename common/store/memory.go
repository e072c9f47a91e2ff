package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory document store used for tests and for running
// without a database. Records are held as encoded JSON so reads always hand
// out independent copies.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
	}
}

// Create inserts a new record and returns its assigned id
func (s *MemoryStore) Create(ctx context.Context, collection string, record map[string]any) (string, error) {
	id := uuid.NewString()

	data, err := marshalWithID(record, id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string][]byte)
	}
	s.collections[collection][id] = data

	return id, nil
}

// Get retrieves a record by id
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	s.mu.RLock()
	data, ok := s.collections[collection][id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode record %s/%s: %w", collection, id, err)
	}
	return record, nil
}

// Update replaces each key present in partial; other keys are untouched
func (s *MemoryStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	merged, err := applyPartial(data, partial)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	s.collections[collection][id] = merged
	return nil
}

// Delete removes a record by id
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

// Query returns records matching the equality filters, ordered and paginated
func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]map[string]any, error) {
	s.mu.RLock()
	encoded := make([][]byte, 0, len(s.collections[collection]))
	for _, data := range s.collections[collection] {
		encoded = append(encoded, data)
	}
	s.mu.RUnlock()

	var records []map[string]any
	for _, data := range encoded {
		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if matchesFilters(record, q.Filters) {
			records = append(records, record)
		}
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	sort.SliceStable(records, func(i, j int) bool {
		less := compareValues(records[i][orderBy], records[j][orderBy])
		if less == 0 {
			// stable tiebreak on id, matching the SQL implementation
			less = compareValues(records[i]["id"], records[j]["id"])
		}
		if q.Descending {
			return less > 0
		}
		return less < 0
	})

	return applyCursor(records, q.StartAfter, q.Limit), nil
}

func matchesFilters(record map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		if !reflect.DeepEqual(record[key], normalize(want)) {
			return false
		}
	}
	return true
}

// normalize round-trips a value through JSON so filter values compare equal
// to decoded record values (e.g. int filters against float64 record fields).
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// compareValues orders decoded JSON scalars: -1 if a < b, 1 if a > b, 0 if equal
func compareValues(a, b any) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case !av && bv:
				return -1
			case av && !bv:
				return 1
			}
			return 0
		}
	}
	if a == nil && b != nil {
		return -1
	}
	if a != nil && b == nil {
		return 1
	}
	return 0
}
