package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/callready/scriptd/cmd/scriptd/catalog"
	"github.com/callready/scriptd/cmd/scriptd/models"
	"github.com/callready/scriptd/cmd/scriptd/repository"
	"github.com/callready/scriptd/common/cache"
	"github.com/callready/scriptd/common/logger"
	"github.com/callready/scriptd/common/store"
)

// ScriptService orchestrates script entities against the document store,
// applying validation and ownership checks at every boundary
type ScriptService struct {
	repo         *repository.ScriptRepository
	catalog      *catalog.Catalog
	cache        cache.Cache
	log          *logger.Logger
	analyticsTTL time.Duration
	now          func() time.Time
}

// NewScriptService creates a new script service
func NewScriptService(
	repo *repository.ScriptRepository,
	cat *catalog.Catalog,
	c cache.Cache,
	log *logger.Logger,
	analyticsTTL time.Duration,
) *ScriptService {
	return &ScriptService{
		repo:         repo,
		catalog:      cat,
		cache:        c,
		log:          log,
		analyticsTTL: analyticsTTL,
		now:          time.Now,
	}
}

// ListFilters narrows and orders a script listing. Zero-valued filters are
// ignored; filters combine as a conjunction.
type ListFilters struct {
	Type       models.ScriptType
	Status     models.Status
	Industry   string
	Objective  string
	OrderBy    string
	Descending bool
	Limit      int
	StartAfter string
}

// CreateScript builds a script from the raw input, applies defaults,
// validates, derives variables, and persists. When useTemplate is set and
// the catalog covers the (type, objective) pair, the template seeds the
// content before validation.
func (s *ScriptService) CreateScript(ctx context.Context, owner string, input *models.Script, useTemplate bool) (*models.Script, error) {
	now := s.timestamp()

	script := input.Clone()
	script.ID = ""
	script.ParentScriptID = ""
	script.Version = 0
	script.CreatedBy = owner
	script.CreatedAt = now
	script.UpdatedAt = now
	script.ApplyDefaults()

	if useTemplate {
		if tpl, ok := s.catalog.Get(script.Type, script.Objective); ok {
			script.Content = tpl
			s.log.Info("seeded script from template", "type", script.Type, "objective", script.Objective)
		} else {
			s.log.Warn("no template for pair, creating unseeded", "type", script.Type, "objective", script.Objective)
		}
	}

	created, err := s.persistNew(ctx, script)
	if err != nil {
		return nil, err
	}

	s.log.WithOwner(owner).Info("script created", "script_id", created.ID, "type", created.Type)
	return created, nil
}

// GetScript fetches a script by id. When owner is non-empty, a mismatch
// against the stored created_by fails with AccessDeniedError before any
// contents are returned.
func (s *ScriptService) GetScript(ctx context.Context, id, owner string) (*models.Script, error) {
	script, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}

	if owner != "" && script.CreatedBy != owner {
		return nil, &AccessDeniedError{ID: id}
	}

	return script, nil
}

// GetScripts returns the owner's scripts matching the filters, ordered by
// the requested field (default: updated_at descending)
func (s *ScriptService) GetScripts(ctx context.Context, owner string, f ListFilters) ([]*models.Script, error) {
	q := buildQuery(owner, f)

	scripts, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	return scripts, nil
}

// UpdateScript merges the patch over the stored script, revalidates,
// re-derives variables, and persists. Metrics, version, lineage, and
// provenance fields are structurally out of reach of this path.
func (s *ScriptService) UpdateScript(ctx context.Context, id, owner string, patch models.UpdatePatch) (*models.Script, error) {
	script, err := s.loadOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	script.ApplyUpdate(patch)
	script.ApplyDefaults()

	if errs := script.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	script.RecomputeVariables()
	script.UpdatedAt = s.timestamp()

	// Only the mutable fields and their derived state reach the store, each
	// written explicitly so cleared values persist as cleared. Metrics,
	// version, lineage, and provenance never appear here.
	partial := map[string]any{
		"name":        script.Name,
		"description": script.Description,
		"type":        script.Type,
		"tone":        script.Tone,
		"objective":   script.Objective,
		"industry":    script.Industry,
		"tags":        script.Tags,
		"content":     script.Content,
		"variables":   script.Variables,
		"settings":    script.Settings,
		"status":      script.Status,
		"updated_at":  script.UpdatedAt.Format(time.RFC3339),
	}

	if err := s.repo.Update(ctx, id, partial); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &StorageError{Op: "update", Err: err}
	}

	s.invalidateAnalytics(ctx, owner)
	s.log.WithScriptID(id).WithOwner(owner).Info("script updated")
	return script, nil
}

// DeleteScript performs an ownership-checked hard delete. Deleting an
// already-deleted script fails with NotFoundError.
func (s *ScriptService) DeleteScript(ctx context.Context, id, owner string) error {
	if _, err := s.loadOwned(ctx, id, owner); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return &StorageError{Op: "delete", Err: err}
	}

	s.invalidateAnalytics(ctx, owner)
	s.log.WithScriptID(id).WithOwner(owner).Info("script deleted")
	return nil
}

// DuplicateScript creates a lineage-free copy of the source script through
// the normal create path. newName defaults to "<source name> (Copy)".
func (s *ScriptService) DuplicateScript(ctx context.Context, id, owner, newName string) (*models.Script, error) {
	src, err := s.loadOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	dup := src.Duplicate(newName, s.timestamp())

	created, err := s.persistNew(ctx, dup)
	if err != nil {
		return nil, err
	}

	s.log.WithOwner(owner).Info("script duplicated", "source_id", id, "script_id", created.ID)
	return created, nil
}

// CreateVersion derives a new version of the source script: incremented
// version number, lineage pointer back to the source, baseline metrics.
func (s *ScriptService) CreateVersion(ctx context.Context, id, owner string) (*models.Script, error) {
	src, err := s.loadOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	next := src.CreateVersion(s.timestamp())

	created, err := s.persistNew(ctx, next)
	if err != nil {
		return nil, err
	}

	s.log.WithOwner(owner).Info("script version created",
		"parent_id", id,
		"script_id", created.ID,
		"version", created.Version,
	)
	return created, nil
}

// GetScriptVersions returns the owner's scripts derived from parentID,
// newest version first
func (s *ScriptService) GetScriptVersions(ctx context.Context, parentID, owner string) ([]*models.Script, error) {
	scripts, err := s.repo.List(ctx, store.Query{
		Filters: map[string]any{
			"parent_script_id": parentID,
			"created_by":       owner,
		},
		OrderBy:    "version",
		Descending: true,
	})
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	return scripts, nil
}

// UpdateMetrics merges the metric fields into the stored script and
// refreshes last_used and updated_at. Metrics updates are not structural
// content edits, so the entity is not revalidated and no ownership check
// applies (callers are internal reporting paths).
func (s *ScriptService) UpdateMetrics(ctx context.Context, id string, patch models.MetricsPatch) (*models.Script, error) {
	script, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}

	now := s.timestamp()
	script.UpdateMetrics(patch, now)

	partial := map[string]any{
		"performance_metrics": script.PerformanceMetrics,
		"updated_at":          now.Format(time.RFC3339),
	}
	if err := s.repo.Update(ctx, id, partial); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &StorageError{Op: "update", Err: err}
	}

	s.invalidateAnalytics(ctx, script.CreatedBy)
	return script, nil
}

// SearchScripts retains the owner's filtered scripts whose name,
// description, or tags contain term, case-insensitively. This is a linear
// in-process filter, not an indexed search.
func (s *ScriptService) SearchScripts(ctx context.Context, owner, term string, f ListFilters) ([]*models.Script, error) {
	scripts, err := s.GetScripts(ctx, owner, f)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return scripts, nil
	}

	matched := make([]*models.Script, 0, len(scripts))
	for _, script := range scripts {
		haystack := strings.ToLower(
			script.Name + " " + script.Description + " " + strings.Join(script.Tags, " "),
		)
		if strings.Contains(haystack, needle) {
			matched = append(matched, script)
		}
	}
	return matched, nil
}

// RenderScript substitutes caller-supplied values into a stored script's
// content and returns the rendered copy. Nothing is persisted; unresolved
// placeholders survive verbatim.
func (s *ScriptService) RenderScript(ctx context.Context, id, owner string, values map[string]string) (*models.Script, error) {
	script, err := s.GetScript(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	rendered, err := script.ReplaceVariables(values)
	if err != nil {
		return nil, &StorageError{Op: "render", Err: err}
	}
	return rendered, nil
}

// persistNew runs the shared create path: validate, derive variables,
// reset metrics to baseline, persist, return the entity with its id.
func (s *ScriptService) persistNew(ctx context.Context, script *models.Script) (*models.Script, error) {
	if errs := script.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	script.RecomputeVariables()
	script.PerformanceMetrics = models.Metrics{}

	id, err := s.repo.Create(ctx, script)
	if err != nil {
		return nil, &StorageError{Op: "create", Err: err}
	}
	script.ID = id

	s.invalidateAnalytics(ctx, script.CreatedBy)
	return script, nil
}

// loadOwned fetches a script and enforces ownership
func (s *ScriptService) loadOwned(ctx context.Context, id, owner string) (*models.Script, error) {
	script, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	if script.CreatedBy != owner {
		return nil, &AccessDeniedError{ID: id}
	}
	return script, nil
}

func buildQuery(owner string, f ListFilters) store.Query {
	filters := map[string]any{"created_by": owner}
	if f.Type != "" {
		filters["type"] = string(f.Type)
	}
	if f.Status != "" {
		filters["status"] = string(f.Status)
	}
	if f.Industry != "" {
		filters["industry"] = f.Industry
	}
	if f.Objective != "" {
		filters["objective"] = f.Objective
	}

	orderBy := f.OrderBy
	descending := f.Descending
	if orderBy == "" {
		orderBy = "updated_at"
		descending = true
	}

	return store.Query{
		Filters:    filters,
		OrderBy:    orderBy,
		Descending: descending,
		Limit:      f.Limit,
		StartAfter: f.StartAfter,
	}
}

// timestamp returns the current UTC time at whole-second precision. Stored
// timestamps are ordered lexically as strings, and a fixed precision keeps
// that order chronological (RFC 3339 with mixed fractional digits is not).
func (s *ScriptService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}
