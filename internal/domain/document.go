package domain

// The document schema is closed: sanitization keeps only the keys declared
// here. The tables below are the single source of truth for the pruner, so
// schema drift is a one-place edit.

// Section names, in canonical order.
const (
	SectionMetadata            = "metadata"
	SectionProblemStatement    = "problem_statement"
	SectionDomainModel         = "domain_model"
	SectionMethodSelection     = "method_selection"
	SectionSimulationScenarios = "simulation_scenarios"
	SectionSolutionAndAnalysis = "solution_and_analysis"
	SectionOutputContract      = "output_contract"
	SectionNoveltyAssurance    = "novelty_assurance"
)

// GatePassedKey is the self-reported novelty gate boolean inside the
// novelty_assurance section. A candidate carrying an explicit false here is
// rejected even if it parses cleanly.
const GatePassedKey = "gate_passed"

// SectionNames lists the eight allowed top-level keys in canonical order.
var SectionNames = []string{
	SectionMetadata,
	SectionProblemStatement,
	SectionDomainModel,
	SectionMethodSelection,
	SectionSimulationScenarios,
	SectionSolutionAndAnalysis,
	SectionOutputContract,
	SectionNoveltyAssurance,
}

// SectionKeys maps each section with a closed property set to its allowed
// keys. Sections absent from this map keep whatever keys the model emitted
// below the top level.
var SectionKeys = map[string][]string{
	SectionMetadata:            {"title", "domain", "difficulty", "version", "created"},
	SectionProblemStatement:    {"summary", "context", "objectives", "assumptions"},
	SectionDomainModel:         {"entities", "relationships", "governing_equations", "parameters"},
	SectionMethodSelection:     {"candidate_methods", "selected_method", "selection_rationale", "tradeoffs"},
	SectionSolutionAndAnalysis: {"solution_outline", "analysis_steps", "expected_results", "verification_strategy"},
	SectionOutputContract:      {"deliverables", "format", "units", "tolerances"},
	SectionNoveltyAssurance:    {"comparison_corpus", "similarity_findings", "differentiators", GatePassedKey},
}

// ScenarioKeys is the closed property set of one simulation scenario record.
// Every surviving value in a scenario is coerced to a string: the schema
// requires string-typed fields there regardless of what the model emitted.
var ScenarioKeys = []string{
	"name",
	"description",
	"initial_conditions",
	"boundary_conditions",
	"parameter_overrides",
	"expected_regime",
	"duration",
}

// IsSection reports whether name is one of the eight allowed top-level keys.
func IsSection(name string) bool {
	for _, s := range SectionNames {
		if s == name {
			return true
		}
	}
	return false
}
