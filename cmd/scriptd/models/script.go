package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/callready/scriptd/common/variables"
)

// ScriptType determines which content fields a script requires
type ScriptType string

const (
	TypeCall  ScriptType = "call"
	TypeSMS   ScriptType = "sms"
	TypeEmail ScriptType = "email"
)

// Tone is the delivery style of a script
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneAssertive    Tone = "assertive"
)

// Status is the lifecycle state of a script
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// MaxNameLength is the upper bound on script names
const MaxNameLength = 100

// Content is the structured message body of a script. Any string field may
// contain {placeholder} tokens.
type Content struct {
	Opening           string            `json:"opening"`
	MainPoints        []string          `json:"main_points"`
	ObjectionHandling map[string]string `json:"objection_handling"`
	Closing           string            `json:"closing"`
	FallbackResponses []string          `json:"fallback_responses"`
}

// EmptyContent returns a content document with all five sub-fields present
func EmptyContent() Content {
	return Content{
		MainPoints:        []string{},
		ObjectionHandling: map[string]string{},
		FallbackResponses: []string{},
	}
}

// Metrics tracks script performance. Mutated only through UpdateMetrics,
// never through ordinary updates.
type Metrics struct {
	TotalUses       int        `json:"total_uses"`
	SuccessRate     float64    `json:"success_rate"`
	AverageDuration float64    `json:"average_duration"`
	ConversionRate  float64    `json:"conversion_rate"`
	LastUsed        *time.Time `json:"last_used"`
}

// MetricsPatch is a partial metrics update. Nil fields retain their
// previous values (shallow merge).
type MetricsPatch struct {
	TotalUses       *int     `json:"total_uses,omitempty"`
	SuccessRate     *float64 `json:"success_rate,omitempty"`
	AverageDuration *float64 `json:"average_duration,omitempty"`
	ConversionRate  *float64 `json:"conversion_rate,omitempty"`
}

// Script is the central entity: a templated, versioned, multi-channel
// message definition.
type Script struct {
	// Assigned by the store on first persist; empty until then
	ID string `json:"id,omitempty"`

	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        ScriptType `json:"type"`
	Tone        Tone       `json:"tone"`

	// Free-form classification tag, used for template lookup and
	// analytics grouping; not a closed set
	Objective string   `json:"objective,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	Tags      []string `json:"tags"`

	Content Content `json:"content"`

	// Derived set of {placeholder} names found in Content, first-seen
	// order, duplicates removed. Recomputed on every create/update.
	Variables []string `json:"variables"`

	// Behavioral configuration: opaque passthrough, not validated here
	Settings map[string]any `json:"settings"`

	PerformanceMetrics Metrics `json:"performance_metrics"`

	Status  Status `json:"status"`
	Version int    `json:"version"`

	// Lineage pointer to the script this version was derived from.
	// Set only by CreateVersion; duplicates carry no lineage.
	ParentScriptID string `json:"parent_script_id,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings is the baseline behavioral configuration for new scripts
func DefaultSettings() map[string]any {
	return map[string]any{
		"max_duration":   300,
		"retry_attempts": 3,
		"voice": map[string]any{
			"speed": 1.0,
			"pitch": 1.0,
		},
		"ai_enabled": true,
	}
}

// ApplyDefaults fills every omitted field with its documented default.
// Defaulting always succeeds; only Validate reports errors.
func (s *Script) ApplyDefaults() {
	if s.Type == "" {
		s.Type = TypeCall
	}
	if s.Tone == "" {
		s.Tone = ToneProfessional
	}
	if s.Status == "" {
		s.Status = StatusDraft
	}
	if s.Version == 0 {
		s.Version = 1
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Variables == nil {
		s.Variables = []string{}
	}
	if s.Settings == nil {
		s.Settings = DefaultSettings()
	}
	if s.Content.MainPoints == nil {
		s.Content.MainPoints = []string{}
	}
	if s.Content.ObjectionHandling == nil {
		s.Content.ObjectionHandling = map[string]string{}
	}
	if s.Content.FallbackResponses == nil {
		s.Content.FallbackResponses = []string{}
	}
}

// Validate checks structural and type-specific rules. Errors accumulate;
// validation never stops at the first violation.
func (s *Script) Validate() []string {
	var errs []string

	name := strings.TrimSpace(s.Name)
	if name == "" {
		errs = append(errs, "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		errs = append(errs, fmt.Sprintf("name must be %d characters or fewer", MaxNameLength))
	}

	switch s.Type {
	case TypeCall, TypeSMS, TypeEmail:
	default:
		errs = append(errs, fmt.Sprintf("invalid script type: %q", s.Type))
	}

	switch s.Tone {
	case ToneProfessional, ToneCasual, ToneFriendly, ToneAssertive:
	default:
		errs = append(errs, fmt.Sprintf("invalid tone: %q", s.Tone))
	}

	switch s.Status {
	case StatusDraft, StatusActive, StatusArchived:
	default:
		errs = append(errs, fmt.Sprintf("invalid status: %q", s.Status))
	}

	// Type-specific content rules. Email scripts intentionally have no
	// content requirement beyond the common ones.
	switch s.Type {
	case TypeCall:
		if s.Content.Opening == "" {
			errs = append(errs, "call scripts require a non-empty opening")
		}
	case TypeSMS:
		if len(s.Content.MainPoints) == 0 {
			errs = append(errs, "sms scripts require at least one main point")
		}
	}

	return errs
}

// ExtractVariables returns the placeholder names present in Content
func (s *Script) ExtractVariables() []string {
	return variables.Extract(s.Content)
}

// RecomputeVariables re-derives the Variables set from Content
func (s *Script) RecomputeVariables() {
	names := s.ExtractVariables()
	if names == nil {
		names = []string{}
	}
	s.Variables = names
}

// ReplaceVariables returns a copy of the script whose Content has every
// resolvable placeholder substituted. Unresolved placeholders survive
// verbatim. The receiver, its Variables set, and its timestamps are
// untouched; nothing is persisted.
func (s *Script) ReplaceVariables(values map[string]string) (*Script, error) {
	rendered := s.Clone()

	generic, err := toJSONValue(s.Content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}

	replaced := variables.Replace(generic, values)

	content, err := fromJSONValue(replaced)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	rendered.Content = content

	return rendered, nil
}

// UpdateMetrics shallow-merges the given metric fields and refreshes
// last_used and updated_at
func (s *Script) UpdateMetrics(patch MetricsPatch, now time.Time) {
	if patch.TotalUses != nil {
		s.PerformanceMetrics.TotalUses = *patch.TotalUses
	}
	if patch.SuccessRate != nil {
		s.PerformanceMetrics.SuccessRate = *patch.SuccessRate
	}
	if patch.AverageDuration != nil {
		s.PerformanceMetrics.AverageDuration = *patch.AverageDuration
	}
	if patch.ConversionRate != nil {
		s.PerformanceMetrics.ConversionRate = *patch.ConversionRate
	}
	s.PerformanceMetrics.LastUsed = &now
	s.UpdatedAt = now
}

// CreateVersion returns a new unpersisted script derived from s: same
// content and settings, no id, incremented version, lineage pointer back
// to s, fresh timestamps, baseline metrics.
func (s *Script) CreateVersion(now time.Time) *Script {
	next := s.Clone()
	next.ID = ""
	next.Version = s.Version + 1
	next.ParentScriptID = s.ID
	next.PerformanceMetrics = Metrics{}
	next.CreatedAt = now
	next.UpdatedAt = now
	return next
}

// Duplicate returns a new unpersisted lineage-free copy of s with version 1
// and baseline metrics. An empty newName defaults to "<name> (Copy)".
func (s *Script) Duplicate(newName string, now time.Time) *Script {
	dup := s.Clone()
	dup.ID = ""
	dup.ParentScriptID = ""
	dup.Version = 1
	dup.PerformanceMetrics = Metrics{}
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if newName != "" {
		dup.Name = newName
	} else {
		dup.Name = s.Name + " (Copy)"
	}

	return dup
}

// Clone returns a deep copy of the script
func (s *Script) Clone() *Script {
	data, err := json.Marshal(s)
	if err != nil {
		copied := *s
		return &copied
	}
	var out Script
	if err := json.Unmarshal(data, &out); err != nil {
		copied := *s
		return &copied
	}
	return &out
}

// ToRecord converts the script to a plain record for the document store
func (s *Script) ToRecord() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode script: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode script record: %w", err)
	}
	return record, nil
}

// FromRecord constructs a script from a stored record
func FromRecord(record map[string]any) (*Script, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &s, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromJSONValue(v any) (Content, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Content{}, err
	}
	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		return Content{}, err
	}
	return content, nil
}
