package variables

import (
	"reflect"
	"testing"
)

func TestExtract_OrderAndDedup(t *testing.T) {
	content := map[string]any{
		"opening": "Hi {firstName} from {company}",
		"main_points": []any{
			"We know {company} well",
			"Ask about {painPoint}",
		},
		"closing": "Bye {firstName}",
	}

	got := Extract(content)
	want := []string{"firstName", "company", "painPoint"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtract_NoTokens(t *testing.T) {
	got := Extract(map[string]any{"opening": "Hello there"})
	if len(got) != 0 {
		t.Errorf("Extract = %v, want empty", got)
	}
}

func TestExtract_NonStringLeaves(t *testing.T) {
	content := map[string]any{
		"count":   42,
		"enabled": true,
		"nothing": nil,
		"note":    "only {this} counts",
	}

	got := Extract(content)
	want := []string{"this"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtract_IgnoresObjectSyntax(t *testing.T) {
	// A nested object with no tokens must not surface its serialized body
	// as a variable name.
	content := map[string]any{
		"objection_handling": map[string]any{
			"busy": "No problem, another time then.",
		},
	}

	if got := Extract(content); len(got) != 0 {
		t.Errorf("Extract = %v, want empty", got)
	}
}

func TestExtract_MalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"unclosed brace", "Hi {firstName", nil},
		{"nested open brace", "Hi {a{b}", []string{"b"}},
		{"empty braces", "Hi {}", nil},
		{"stray close brace", "Hi } there", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(map[string]any{"opening": tt.input})
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplace_Simple(t *testing.T) {
	content := map[string]any{"opening": "Hi {firstName}"}

	got := Replace(content, map[string]string{"firstName": "Ann"})

	want := map[string]any{"opening": "Hi Ann"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Replace = %v, want %v", got, want)
	}
}

func TestReplace_UnresolvedTokenPreserved(t *testing.T) {
	content := map[string]any{"opening": "Hi {firstName}"}

	got := Replace(content, map[string]string{})

	want := map[string]any{"opening": "Hi {firstName}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Replace = %v, want %v", got, want)
	}
}

func TestReplace_Nested(t *testing.T) {
	content := map[string]any{
		"main_points": []any{"Call {firstName}", "Mention {company}"},
		"objection_handling": map[string]any{
			"busy": "Sorry {firstName}, when works?",
		},
		"attempts": float64(3),
	}

	got := Replace(content, map[string]string{"firstName": "Ann", "company": "Acme"})

	want := map[string]any{
		"main_points": []any{"Call Ann", "Mention Acme"},
		"objection_handling": map[string]any{
			"busy": "Sorry Ann, when works?",
		},
		"attempts": float64(3),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Replace = %v, want %v", got, want)
	}
}

func TestReplace_DoesNotMutateInput(t *testing.T) {
	content := map[string]any{
		"opening":     "Hi {firstName}",
		"main_points": []any{"About {topic}"},
	}

	Replace(content, map[string]string{"firstName": "Ann", "topic": "pricing"})

	if content["opening"] != "Hi {firstName}" {
		t.Errorf("input map mutated: %v", content["opening"])
	}
	if content["main_points"].([]any)[0] != "About {topic}" {
		t.Errorf("input slice mutated: %v", content["main_points"])
	}
}

func TestNoopSubstitutionKeepsExtraction(t *testing.T) {
	content := map[string]any{
		"opening": "Hi {firstName} from {company}",
		"closing": "Bye {firstName}",
	}

	before := Extract(content)
	after := Extract(Replace(content, map[string]string{}))

	if !reflect.DeepEqual(before, after) {
		t.Errorf("extraction changed after no-op substitution: %v vs %v", before, after)
	}
}

func TestFullSubstitutionRemovesAllTokens(t *testing.T) {
	content := map[string]any{
		"opening":     "Hi {firstName} from {company}",
		"main_points": []any{"Ask about {painPoint}"},
	}

	values := map[string]string{}
	for _, name := range Extract(content) {
		values[name] = "x"
	}

	if remaining := Extract(Replace(content, values)); len(remaining) != 0 {
		t.Errorf("tokens remain after full substitution: %v", remaining)
	}
}
