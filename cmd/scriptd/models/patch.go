package models

// UpdatePatch is the explicit set of fields an ordinary update may touch.
// Nil fields are left unchanged. Anything not listed here — id, version,
// parent_script_id, variables, performance_metrics, created_by, created_at —
// cannot be modified through an update: metrics change only via
// UpdateMetrics, version and lineage only via CreateVersion/Duplicate, and
// variables are always re-derived from content.
type UpdatePatch struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Type        *ScriptType     `json:"type,omitempty"`
	Tone        *Tone           `json:"tone,omitempty"`
	Objective   *string         `json:"objective,omitempty"`
	Industry    *string         `json:"industry,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	Content     *Content        `json:"content,omitempty"`
	Settings    *map[string]any `json:"settings,omitempty"`
	Status      *Status         `json:"status,omitempty"`
}

// ApplyUpdate merges the patch over the script field by field. Content and
// Settings are replace-whole, not deep-merged.
func (s *Script) ApplyUpdate(patch UpdatePatch) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.Type != nil {
		s.Type = *patch.Type
	}
	if patch.Tone != nil {
		s.Tone = *patch.Tone
	}
	if patch.Objective != nil {
		s.Objective = *patch.Objective
	}
	if patch.Industry != nil {
		s.Industry = *patch.Industry
	}
	if patch.Tags != nil {
		s.Tags = *patch.Tags
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.Settings != nil {
		s.Settings = *patch.Settings
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
}
