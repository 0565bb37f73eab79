// Package validate holds the accept/reject checkpoint between sanitization
// and the caller. The schema verdict itself comes from an external
// Validator; the gate only interprets it.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/docforge/docforge/internal/domain"
)

// maxReportedIssues bounds how many path+message pairs a rejection message
// enumerates.
const maxReportedIssues = 8

// Gate submits candidate documents to the external validator and converts
// its verdict into accept (nil) or reject (ValidationGateError).
type Gate struct {
	validator domain.Validator
}

// NewGate creates a gate over the given validator collaborator.
func NewGate(validator domain.Validator) *Gate {
	return &Gate{validator: validator}
}

// Check accepts or rejects candidate. The self-reported novelty gate inside
// the candidate is a first-class acceptance criterion: an explicit false
// rejects even when the validator is satisfied, and the rejection surfaces
// whatever the validator found rather than silently passing.
func (g *Gate) Check(ctx context.Context, candidate map[string]any) error {
	result, err := g.validator.Validate(ctx, candidate)
	if err != nil {
		return fmt.Errorf("validator unavailable: %w", err)
	}

	gateFailed := noveltyGateFailed(candidate)
	if result.OK() && !gateFailed {
		return nil
	}

	message := RejectionMessage(result)
	if gateFailed {
		message = "novelty gate not passed; " + message
	}
	return domain.NewValidationGateError(message, result)
}

// RejectionMessage renders the validator's summary plus up to the first
// eight "<instancePath or '/'> <message>" lines.
func RejectionMessage(result *domain.ValidationResult) string {
	var b strings.Builder
	if result.Summary != "" {
		b.WriteString(result.Summary)
	} else {
		b.WriteString("document failed validation")
	}

	issues := result.Errors
	if len(issues) > maxReportedIssues {
		issues = issues[:maxReportedIssues]
	}
	for _, issue := range issues {
		path := issue.InstancePath
		if path == "" {
			path = "/"
		}
		b.WriteString("\n")
		b.WriteString(path)
		b.WriteString(" ")
		b.WriteString(issue.Message)
	}
	return b.String()
}

// noveltyGateFailed reports whether the candidate carries an explicit false
// novelty gate. A missing or malformed gate value is not a failure here; the
// validator reports those.
func noveltyGateFailed(candidate map[string]any) bool {
	section, ok := candidate[domain.SectionNoveltyAssurance].(map[string]any)
	if !ok {
		return false
	}
	passed, ok := section[domain.GatePassedKey].(bool)
	return ok && !passed
}
