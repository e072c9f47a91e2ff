package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "things", map[string]any{"name": "one", "n": 1})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "one", record["name"])
	assert.Equal(t, id, record["id"])

	err = s.Update(ctx, "things", id, map[string]any{"name": "two"})
	require.NoError(t, err)

	record, err = s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "two", record["name"])
	assert.Equal(t, float64(1), record["n"], "unpatched field preserved")

	require.NoError(t, s.Delete(ctx, "things", id))

	_, err = s.Get(ctx, "things", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "things", id), ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, "things", id, map[string]any{"x": 1}), ErrNotFound)
}

func TestMemoryStore_UpdateReplacesKeysWholesale(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "things", map[string]any{
		"nested": map[string]any{"keep": "a", "drop": "b"},
		"other":  "untouched",
	})
	require.NoError(t, err)

	err = s.Update(ctx, "things", id, map[string]any{
		"nested": map[string]any{"keep": "a"},
	})
	require.NoError(t, err)

	record, err := s.Get(ctx, "things", id)
	require.NoError(t, err)

	nested := record["nested"].(map[string]any)
	assert.Equal(t, "a", nested["keep"])
	_, survived := nested["drop"]
	assert.False(t, survived, "entries removed from a nested map must not survive an update")
	assert.Equal(t, "untouched", record["other"])
}

func TestMemoryStore_UpdatePersistsEmptyValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "things", map[string]any{"note": "old words"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "things", id, map[string]any{"note": ""}))

	record, err := s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "", record["note"])
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "things", map[string]any{"tags": []any{"a"}})
	require.NoError(t, err)

	first, err := s.Get(ctx, "things", id)
	require.NoError(t, err)
	first["tags"].([]any)[0] = "mutated"

	second, err := s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "a", second["tags"].([]any)[0])
}

func TestMemoryStore_QueryFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, rec := range []map[string]any{
		{"name": "alpha", "owner": "u1", "rank": 3},
		{"name": "beta", "owner": "u1", "rank": 1},
		{"name": "gamma", "owner": "u2", "rank": 2},
		{"name": "delta", "owner": "u1", "rank": 2},
	} {
		_, err := s.Create(ctx, "things", rec)
		require.NoError(t, err)
	}

	records, err := s.Query(ctx, "things", Query{
		Filters: map[string]any{"owner": "u1"},
		OrderBy: "rank",
	})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "beta", records[0]["name"])
	assert.Equal(t, "alpha", records[2]["name"])

	records, err = s.Query(ctx, "things", Query{
		Filters:    map[string]any{"owner": "u1"},
		OrderBy:    "rank",
		Descending: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "alpha", records[0]["name"])
}

func TestMemoryStore_QueryCursorAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 1; i <= 5; i++ {
		_, err := s.Create(ctx, "things", map[string]any{"rank": i})
		require.NoError(t, err)
	}

	first, err := s.Query(ctx, "things", Query{OrderBy: "rank", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, float64(1), first[0]["rank"])

	cursor := first[1]["id"].(string)
	second, err := s.Query(ctx, "things", Query{OrderBy: "rank", Limit: 2, StartAfter: cursor})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, float64(3), second[0]["rank"])
	assert.Equal(t, float64(4), second[1]["rank"])
}
