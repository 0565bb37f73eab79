package domain

import "time"

// Message is one prompt message handed to a provider strategy.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationRequest captures everything a provider strategy needs to build a
// wire request. Immutable once built; consumed once.
type GenerationRequest struct {
	Provider        string
	Model           string
	SystemPrompt    string
	UserPrompt      string
	Domain          string
	ScenarioHint    string
	MaxOutputTokens int
	// Ping relaxes the JSON-structure requirement on the response and
	// selects tighter transport timeouts.
	Ping bool
}

// Messages returns the system+user message list in wire order.
func (r *GenerationRequest) Messages() []Message {
	return []Message{
		{Role: "system", Content: r.SystemPrompt},
		{Role: "user", Content: r.UserPrompt},
	}
}

// RequestDescriptor is the wire-level translation of a GenerationRequest for
// one provider: built fresh per attempt, discarded after the exchange.
// Header values carry the real credential; anything logged goes through
// RedactedHeaders.
type RequestDescriptor struct {
	URL     string
	Body    []byte
	Headers map[string]string
}

// secretHeaders lists header names whose values never reach a log line.
var secretHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"x-goog-api-key": true,
}

// RedactedHeaders returns a copy of the headers safe for logging and events.
func (d *RequestDescriptor) RedactedHeaders() map[string]string {
	out := make(map[string]string, len(d.Headers))
	for k, v := range d.Headers {
		if secretHeaders[lowerASCII(k)] {
			out[k] = "[redacted]"
		} else {
			out[k] = v
		}
	}
	return out
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// ValidationIssue is one validator finding, addressed by JSON pointer.
type ValidationIssue struct {
	InstancePath string `json:"instancePath"`
	Message      string `json:"message"`
}

// ValidationResult is the external validator's verdict. The pipeline only
// interprets it; the validator owns its production.
type ValidationResult struct {
	Status  string            `json:"status"` // "ok" or "error"
	Errors  []ValidationIssue `json:"errors,omitempty"`
	Summary string            `json:"summary,omitempty"`
}

// OK reports whether the validator accepted the candidate.
func (r *ValidationResult) OK() bool {
	return r != nil && r.Status == "ok"
}

// ValidationReport is the caller-facing shape of ValidateDocument.
type ValidationReport struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// PingResult reports a provider liveness check.
type PingResult struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}
