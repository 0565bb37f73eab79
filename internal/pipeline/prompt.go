package pipeline

import (
	"fmt"
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

// systemPrompt instructs the model to answer with a bare JSON object carrying
// exactly the allowed top-level sections. The section list is rendered from
// the schema table so prompt and pruner can never drift apart.
func systemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a simulation-modeling assistant. Respond with a single JSON object and nothing else: ")
	b.WriteString("no prose, no Markdown code fences.\n\n")
	b.WriteString("The object must contain exactly these top-level sections:\n")
	for _, section := range domain.SectionNames {
		b.WriteString("- ")
		b.WriteString(section)
		b.WriteString("\n")
	}
	b.WriteString("\nEvery field of each ")
	b.WriteString(domain.SectionSimulationScenarios)
	b.WriteString(" record must be a string, including numeric values. ")
	b.WriteString("Set ")
	b.WriteString(domain.SectionNoveltyAssurance)
	b.WriteString(".")
	b.WriteString(domain.GatePassedKey)
	b.WriteString(" to true only when the proposed problem is genuinely distinct from textbook examples.")
	return b.String()
}

// userPrompt describes the requested document. scenarioHint is optional.
func userPrompt(problemDomain, scenarioHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a complete domain-modeling document for the following problem domain: %s.", problemDomain)
	if scenarioHint != "" {
		fmt.Fprintf(&b, "\n\nFocus the simulation scenarios on: %s.", scenarioHint)
	}
	b.WriteString("\n\nInclude at least three simulation scenarios with distinct boundary conditions, ")
	b.WriteString("a justified numerical method selection, and an explicit output contract.")
	return b.String()
}
