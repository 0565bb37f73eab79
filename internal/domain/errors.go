// Package domain provides the canonical types shared by the generation
// pipeline: the document schema table, the error taxonomy, communication
// events, and the collaborator interfaces.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportErrorKind classifies a transport failure at the boundary where it
// occurs, so downstream layers switch on a tag instead of matching message
// substrings.
type TransportErrorKind string

const (
	TransportTimeout TransportErrorKind = "timeout"
	TransportReset   TransportErrorKind = "connection_reset"
	TransportRefused TransportErrorKind = "connection_refused"
	TransportDNS     TransportErrorKind = "dns_not_found"
	TransportGeneric TransportErrorKind = "generic"
)

// TransportError is a failed HTTP exchange. StatusCode is zero when the
// failure happened before a response arrived.
type TransportError struct {
	Kind       TransportErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("transport %s: %s", e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the retry executor may attempt the exchange
// again. Authentication, authorization, and not-found responses never
// recover on retry.
func (e *TransportError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false
	}
	return true
}

// Advice returns the remediation hint shown to the user for this failure
// kind. Timeouts, resets, and generic failures call for different actions.
func (e *TransportError) Advice() string {
	switch e.Kind {
	case TransportTimeout:
		return "the provider did not answer in time; try again later or reduce the request complexity"
	case TransportReset:
		return "the connection was reset mid-call; check your network and retry"
	case TransportRefused:
		return "the provider refused the connection; verify the endpoint address"
	case TransportDNS:
		return "the provider host could not be resolved; check the endpoint and your DNS"
	default:
		return "the call failed; check your network and provider status"
	}
}

// NewTransportError builds a classified transport failure.
func NewTransportError(kind TransportErrorKind, message string, cause error) *TransportError {
	return &TransportError{Kind: kind, Message: message, Cause: cause}
}

// WithStatus attaches the HTTP status of the provider's response.
func (e *TransportError) WithStatus(code int) *TransportError {
	e.StatusCode = code
	return e
}

// ConfigurationError means the pipeline cannot start at all, typically a
// missing API key. Never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Message
}

// NewConfigurationError builds a fatal configuration failure.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ProviderProtocolError means the provider answered with a shape the
// normalizer does not recognize, or reported the generation as unfinished.
// Surfaced as-is, never retried.
type ProviderProtocolError struct {
	Provider string
	Message  string
}

func (e *ProviderProtocolError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("provider protocol (%s): %s", e.Provider, e.Message)
	}
	return "provider protocol: " + e.Message
}

// NewProviderProtocolError builds a protocol failure for a provider.
func NewProviderProtocolError(provider, format string, args ...any) *ProviderProtocolError {
	return &ProviderProtocolError{Provider: provider, Message: fmt.Sprintf(format, args...)}
}

// parseExcerptLimit bounds how much of the offending text a ParseError
// carries.
const parseExcerptLimit = 240

// ParseError means the generated text was not valid JSON after fence
// stripping. Excerpt holds a bounded prefix of the offending text.
type ParseError struct {
	Message string
	Excerpt string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Excerpt != "" {
		return fmt.Sprintf("parse: %s: %q", e.Message, e.Excerpt)
	}
	return "parse: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError builds a parse failure carrying a bounded excerpt of the
// offending text.
func NewParseError(message, text string, cause error) *ParseError {
	excerpt := text
	if len(excerpt) > parseExcerptLimit {
		excerpt = excerpt[:parseExcerptLimit] + "..."
	}
	return &ParseError{Message: message, Excerpt: excerpt, Cause: cause}
}

// SchemaViolationError covers structural problems caught before the external
// validator runs, e.g. a candidate that is not a JSON object at all.
type SchemaViolationError struct {
	Message string
}

func (e *SchemaViolationError) Error() string {
	return "schema violation: " + e.Message
}

// NewSchemaViolationError builds a pre-validation structural failure.
func NewSchemaViolationError(format string, args ...any) *SchemaViolationError {
	return &SchemaViolationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationGateError means the external validator rejected the candidate.
// The message enumerates the validator's summary and up to the first eight
// path+message pairs.
type ValidationGateError struct {
	Message string
	Result  *ValidationResult
}

func (e *ValidationGateError) Error() string {
	return "validation gate: " + e.Message
}

// NewValidationGateError builds a gate rejection carrying the validator's
// verdict.
func NewValidationGateError(message string, result *ValidationResult) *ValidationGateError {
	return &ValidationGateError{Message: message, Result: result}
}

// IsRetryable reports whether the retry executor may re-run the operation
// that produced err. Only transport failures are ever retryable, and those
// can opt out via their status code.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable()
	}
	return false
}
