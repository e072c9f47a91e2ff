// Package variables implements placeholder extraction and substitution for
// script content. A placeholder is a {name} substring inside any string leaf
// of a JSON-shaped value. The grammar is intentionally flat: no escaping, no
// conditionals, no nesting.
package variables

import (
	"encoding/json"
	"regexp"
)

// tokenPattern matches a {name} placeholder. Excluding '{' from the body
// means an unbalanced '{' never swallows a later well-formed token: in
// "{a{b}" only "b" matches. Excluding '"' keeps the pattern safe to run over
// serialized JSON, where an inner object like {"k":"v"} would otherwise match
// as a token (every JSON object body carries quoted keys).
var tokenPattern = regexp.MustCompile(`\{([^{}"]+)\}`)

// Extract serializes content and returns every placeholder name found,
// unique, in first-occurrence order. Pure function; content is not modified.
func Extract(content any) []string {
	data, err := json.Marshal(content)
	if err != nil {
		return nil
	}

	matches := tokenPattern.FindAllSubmatch(data, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := string(m[1])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Replace walks a decoded JSON value and substitutes placeholders in every
// string leaf with entries from values. Placeholders with no entry are left
// verbatim. Non-string leaves pass through unchanged. The input is never
// mutated; maps and slices are rebuilt.
func Replace(content any, values map[string]string) any {
	switch v := content.(type) {
	case string:
		return replaceString(v, values)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Replace(item, values)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Replace(item, values)
		}
		return out
	default:
		return v
	}
}

func replaceString(s string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}
