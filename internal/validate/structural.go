package validate

import (
	"context"
	"fmt"

	"github.com/docforge/docforge/internal/domain"
)

// Structural is the built-in reference validator: it checks the closed
// schema's structure (section presence and types, scenario string-typing,
// the gate boolean) so the pipeline runs standalone. Any external validator
// implementing domain.Validator can replace it.
type Structural struct{}

// NewStructural creates the reference validator.
func NewStructural() *Structural {
	return &Structural{}
}

var _ domain.Validator = (*Structural)(nil)

// Validate checks candidate against the document schema tables.
func (s *Structural) Validate(_ context.Context, candidate map[string]any) (*domain.ValidationResult, error) {
	var issues []domain.ValidationIssue
	add := func(path, message string) {
		issues = append(issues, domain.ValidationIssue{InstancePath: path, Message: message})
	}

	for _, section := range domain.SectionNames {
		value, ok := candidate[section]
		if !ok {
			add("/"+section, "is required")
			continue
		}

		if section == domain.SectionSimulationScenarios {
			s.checkScenarios(value, add)
			continue
		}

		obj, ok := value.(map[string]any)
		if !ok {
			add("/"+section, "must be an object")
			continue
		}
		for key := range obj {
			if !allowedKey(section, key) {
				add(fmt.Sprintf("/%s/%s", section, key), "is not an allowed property")
			}
		}
	}

	for key := range candidate {
		if !domain.IsSection(key) {
			add("/"+key, "is not an allowed property")
		}
	}

	if na, ok := candidate[domain.SectionNoveltyAssurance].(map[string]any); ok {
		if gate, present := na[domain.GatePassedKey]; present {
			if _, isBool := gate.(bool); !isBool {
				add("/"+domain.SectionNoveltyAssurance+"/"+domain.GatePassedKey, "must be a boolean")
			}
		}
	}

	if len(issues) > 0 {
		return &domain.ValidationResult{
			Status:  "error",
			Errors:  issues,
			Summary: fmt.Sprintf("document failed %d structural check(s)", len(issues)),
		}, nil
	}
	return &domain.ValidationResult{Status: "ok", Summary: "document conforms to the schema"}, nil
}

func (s *Structural) checkScenarios(value any, add func(path, message string)) {
	list, ok := value.([]any)
	if !ok {
		add("/"+domain.SectionSimulationScenarios, "must be an array")
		return
	}
	for i, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			add(fmt.Sprintf("/%s/%d", domain.SectionSimulationScenarios, i), "must be an object")
			continue
		}
		for key, v := range record {
			path := fmt.Sprintf("/%s/%d/%s", domain.SectionSimulationScenarios, i, key)
			if !scenarioKey(key) {
				add(path, "is not an allowed property")
				continue
			}
			if _, isString := v.(string); !isString {
				add(path, "must be a string")
			}
		}
	}
}

func allowedKey(section, key string) bool {
	for _, k := range domain.SectionKeys[section] {
		if k == key {
			return true
		}
	}
	return false
}

func scenarioKey(key string) bool {
	for _, k := range domain.ScenarioKeys {
		if k == key {
			return true
		}
	}
	return false
}
