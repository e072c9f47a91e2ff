package repository

import (
	"context"
	"fmt"

	"github.com/callready/scriptd/cmd/scriptd/models"
	"github.com/callready/scriptd/common/store"
)

// Collection is the document-store collection holding scripts
const Collection = "scripts"

// ScriptRepository is a typed view over the document store for scripts
type ScriptRepository struct {
	store store.DocumentStore
}

// NewScriptRepository creates a new script repository
func NewScriptRepository(s store.DocumentStore) *ScriptRepository {
	return &ScriptRepository{store: s}
}

// Create persists a new script and returns its assigned id
func (r *ScriptRepository) Create(ctx context.Context, script *models.Script) (string, error) {
	record, err := script.ToRecord()
	if err != nil {
		return "", fmt.Errorf("convert script: %w", err)
	}
	// The store assigns the id
	delete(record, "id")

	return r.store.Create(ctx, Collection, record)
}

// Get retrieves a script by id. Returns store.ErrNotFound when absent.
func (r *ScriptRepository) Get(ctx context.Context, id string) (*models.Script, error) {
	record, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	return models.FromRecord(record)
}

// Update applies a partial record to a stored script
func (r *ScriptRepository) Update(ctx context.Context, id string, partial map[string]any) error {
	return r.store.Update(ctx, Collection, id, partial)
}

// Delete removes a script. Returns store.ErrNotFound when absent.
func (r *ScriptRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, Collection, id)
}

// List returns scripts matching the query
func (r *ScriptRepository) List(ctx context.Context, q store.Query) ([]*models.Script, error) {
	records, err := r.store.Query(ctx, Collection, q)
	if err != nil {
		return nil, err
	}

	scripts := make([]*models.Script, 0, len(records))
	for _, record := range records {
		script, err := models.FromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("decode script record: %w", err)
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}
