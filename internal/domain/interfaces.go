package domain

import "context"

// Validator is the external schema validator collaborator. The pipeline
// consumes its verdict as a black box.
type Validator interface {
	Validate(ctx context.Context, candidate map[string]any) (*ValidationResult, error)
}
