package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docforge/docforge/internal/domain"
)

// stubValidator returns a canned verdict.
type stubValidator struct {
	result *domain.ValidationResult
	err    error
}

func (s *stubValidator) Validate(context.Context, map[string]any) (*domain.ValidationResult, error) {
	return s.result, s.err
}

func okCandidate() map[string]any {
	return map[string]any{
		domain.SectionNoveltyAssurance: map[string]any{domain.GatePassedKey: true},
	}
}

func TestGateAcceptsOKVerdict(t *testing.T) {
	gate := NewGate(&stubValidator{result: &domain.ValidationResult{Status: "ok"}})
	if err := gate.Check(context.Background(), okCandidate()); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}
}

func TestGateRejectsErrorVerdictWithPathLines(t *testing.T) {
	gate := NewGate(&stubValidator{result: &domain.ValidationResult{
		Status:  "error",
		Summary: "document failed 1 structural check(s)",
		Errors: []domain.ValidationIssue{
			{InstancePath: "/input", Message: "is required"},
		},
	}})

	err := gate.Check(context.Background(), okCandidate())

	var ge *domain.ValidationGateError
	if !errors.As(err, &ge) {
		t.Fatalf("error = %T, want ValidationGateError", err)
	}
	if !strings.Contains(err.Error(), "/input is required") {
		t.Errorf("message %q missing path+message line", err.Error())
	}
	if !strings.Contains(err.Error(), "document failed 1 structural check(s)") {
		t.Errorf("message %q missing summary", err.Error())
	}
}

func TestGateRejectionEnumeratesAtMostEightIssues(t *testing.T) {
	var issues []domain.ValidationIssue
	for i := 0; i < 12; i++ {
		issues = append(issues, domain.ValidationIssue{
			InstancePath: fmt.Sprintf("/field%d", i),
			Message:      "is invalid",
		})
	}
	gate := NewGate(&stubValidator{result: &domain.ValidationResult{
		Status: "error", Summary: "many problems", Errors: issues,
	}})

	err := gate.Check(context.Background(), okCandidate())
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), "/field7 is invalid") {
		t.Error("eighth issue missing")
	}
	if strings.Contains(err.Error(), "/field8 is invalid") {
		t.Error("ninth issue should be cut off")
	}
}

func TestGateEmptyInstancePathRendersSlash(t *testing.T) {
	gate := NewGate(&stubValidator{result: &domain.ValidationResult{
		Status: "error",
		Errors: []domain.ValidationIssue{{InstancePath: "", Message: "is malformed"}},
	}})

	err := gate.Check(context.Background(), okCandidate())
	if err == nil || !strings.Contains(err.Error(), "/ is malformed") {
		t.Errorf("message = %v, want '/ is malformed' line", err)
	}
}

func TestGateFailedNoveltyGateRejectsEvenWhenValidatorIsSatisfied(t *testing.T) {
	gate := NewGate(&stubValidator{result: &domain.ValidationResult{
		Status:  "ok",
		Summary: "document conforms to the schema",
	}})

	candidate := map[string]any{
		domain.SectionNoveltyAssurance: map[string]any{domain.GatePassedKey: false},
	}
	err := gate.Check(context.Background(), candidate)

	var ge *domain.ValidationGateError
	if !errors.As(err, &ge) {
		t.Fatalf("error = %T, want ValidationGateError", err)
	}
	if !strings.Contains(err.Error(), "novelty gate not passed") {
		t.Errorf("message %q does not name the gate", err.Error())
	}
	// The validator's verdict is surfaced, not hidden.
	if !strings.Contains(err.Error(), "document conforms to the schema") {
		t.Errorf("message %q hides the validator's summary", err.Error())
	}
}

func TestGateValidatorInfrastructureErrorPropagates(t *testing.T) {
	gate := NewGate(&stubValidator{err: errors.New("validator down")})

	err := gate.Check(context.Background(), okCandidate())
	if err == nil || !strings.Contains(err.Error(), "validator down") {
		t.Errorf("err = %v", err)
	}
	var ge *domain.ValidationGateError
	if errors.As(err, &ge) {
		t.Error("infrastructure failure must not look like a rejection")
	}
}
