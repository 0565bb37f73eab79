// Package sanitize turns raw generated text into a candidate document:
// strip code-fence markup, parse JSON, and prune every object down to the
// schema's closed property sets. Sanitization is idempotent — re-sanitizing
// an already-sanitized document is a no-op.
package sanitize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

// Sanitize parses rawText and prunes the result to the document schema.
func Sanitize(rawText string) (map[string]any, error) {
	text := StripFences(rawText)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, domain.NewParseError("generated text is not valid JSON", text, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, domain.NewSchemaViolationError("candidate is not a JSON object")
	}

	return Prune(obj), nil
}

// StripFences removes surrounding Markdown code-fence markup, with or
// without a language tag. Text without fences passes through unchanged.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line (``` or ```json).
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// Prune keeps only the eight allowed top-level sections, applies each
// section's closed key set, and coerces scenario record values to strings.
// The input is not mutated.
func Prune(obj map[string]any) map[string]any {
	out := make(map[string]any, len(domain.SectionNames))
	for _, section := range domain.SectionNames {
		value, ok := obj[section]
		if !ok {
			continue
		}
		switch section {
		case domain.SectionSimulationScenarios:
			out[section] = pruneScenarios(value)
		default:
			out[section] = pruneSection(value, domain.SectionKeys[section])
		}
	}
	return out
}

// pruneSection applies a closed key set to one section object. Values that
// are not objects pass through untouched; the validator reports them.
func pruneSection(value any, allowed []string) any {
	m, ok := value.(map[string]any)
	if !ok || allowed == nil {
		return value
	}
	out := make(map[string]any, len(allowed))
	for _, key := range allowed {
		if v, ok := m[key]; ok {
			out[key] = v
		}
	}
	return out
}

// pruneScenarios handles the simulation scenario list; a single record is
// tolerated and pruned the same way.
func pruneScenarios(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, pruneScenario(m))
			}
		}
		return out
	case map[string]any:
		return []any{pruneScenario(v)}
	default:
		return value
	}
}

// pruneScenario keeps the scenario record's closed key set and coerces every
// surviving value to a string: the schema requires string-typed fields here
// regardless of what the model emitted.
func pruneScenario(m map[string]any) map[string]any {
	out := make(map[string]any, len(domain.ScenarioKeys))
	for _, key := range domain.ScenarioKeys {
		if v, ok := m[key]; ok {
			out[key] = coerceString(v)
		}
	}
	return out
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		// Nested objects and arrays are JSON-stringified.
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
