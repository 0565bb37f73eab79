// Package pipeline orchestrates one generation: prompt construction, the
// provider exchange with retry, sanitization, and the validation gate. Only
// documents that clear the gate are returned to callers.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/docforge/docforge/internal/bus"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/provider"
	"github.com/docforge/docforge/internal/retry"
	"github.com/docforge/docforge/internal/sanitize"
	"github.com/docforge/docforge/internal/tokens"
	"github.com/docforge/docforge/internal/transport"
	"github.com/docforge/docforge/internal/validate"
)

const (
	// pingPrompt asks for a trivially checkable reply.
	pingPrompt = "Reply with the single word: pong."
	// pingMaxTokens is generous because reasoning models spend tokens before
	// emitting visible output.
	pingMaxTokens = 256
	// pingFallbackModel answers a ping when the configured Responses-family
	// model rejects the request; the liveness verdict is about the provider,
	// not one model.
	pingFallbackModel = "gpt-4o"

	eventSource = "pipeline"
)

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithGenerationClient replaces the long-timeout transport used for
// generation exchanges.
func WithGenerationClient(c *transport.Client) Option {
	return func(o *Orchestrator) { o.genClient = c }
}

// WithPingClient replaces the tight-timeout transport used for liveness
// checks.
func WithPingClient(c *transport.Client) Option {
	return func(o *Orchestrator) { o.pingClient = c }
}

// WithRetryExecutor replaces the retry executor.
func WithRetryExecutor(ex *retry.Executor) Option {
	return func(o *Orchestrator) { o.retrier = ex }
}

// Orchestrator runs the generation pipeline end to end.
type Orchestrator struct {
	cfg        *config.Config
	gate       *validate.Gate
	events     *bus.Bus
	estimator  *tokens.Estimator
	retrier    *retry.Executor
	genClient  *transport.Client
	pingClient *transport.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New wires an orchestrator from configuration. validator judges candidate
// documents; eventBus may have no observer attached.
func New(cfg *config.Config, validator domain.Validator, eventBus *bus.Bus, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		cfg:        cfg,
		gate:       validate.NewGate(validator),
		events:     eventBus,
		estimator:  tokens.NewEstimator(),
		retrier:    retry.New(logger),
		genClient:  transport.New(cfg.ResponseTimeout(), logger),
		pingClient: transport.New(cfg.PingTimeout(), logger),
		logger:     logger,
		tracer:     otel.Tracer("docforge/pipeline"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateDocument requests one document for problemDomain and returns it
// only after it clears the validation gate. scenarioHint is optional.
func (o *Orchestrator) GenerateDocument(ctx context.Context, problemDomain, scenarioHint string) (map[string]any, error) {
	strategy := provider.Lookup(o.cfg.Provider)
	settings := o.cfg.Active()

	ctx, span := o.tracer.Start(ctx, "pipeline.GenerateDocument",
		trace.WithAttributes(
			attribute.String("provider", strategy.Name()),
			attribute.String("model", settings.Model),
		))
	defer span.End()

	req := &domain.GenerationRequest{
		Provider:        strategy.Name(),
		Model:           settings.Model,
		SystemPrompt:    systemPrompt(),
		UserPrompt:      userPrompt(problemDomain, scenarioHint),
		Domain:          problemDomain,
		ScenarioHint:    scenarioHint,
		MaxOutputTokens: o.cfg.Generation.MaxOutputTokens,
	}

	promptTokens := o.estimator.EstimatePrompt(req.Model, req.SystemPrompt, req.UserPrompt)
	o.logger.Info("dispatching generation",
		slog.String("provider", req.Provider),
		slog.String("model", req.Model),
		slog.Int("prompt_tokens", promptTokens),
	)

	providerSettings := provider.Settings{APIKey: settings.APIKey, BaseURL: settings.BaseURL}
	desc, err := strategy.BuildRequest(req, providerSettings)
	if err != nil {
		o.publishError(strategy.Name(), err)
		span.RecordError(err)
		return nil, err
	}

	track := o.events.StartTracking(eventSource, strategy.Name(), "generation request dispatched", map[string]any{
		"model":         req.Model,
		"prompt_tokens": promptTokens,
		"headers":       desc.RedactedHeaders(),
	})

	payload, err := retry.Do(ctx, o.retrier, o.cfg.Generation.MaxRetries, o.cfg.RetryBaseDelay(),
		func(ctx context.Context) (map[string]any, error) {
			// Each attempt gets a freshly built descriptor.
			desc, err := strategy.BuildRequest(req, providerSettings)
			if err != nil {
				return nil, err
			}
			return o.genClient.Do(ctx, desc)
		})
	if err != nil {
		o.events.EndTracking(track, err.Error(), nil, true)
		span.RecordError(err)
		return nil, err
	}

	text, err := strategy.ExtractText(payload)
	if err != nil {
		o.events.EndTracking(track, err.Error(), nil, true)
		span.RecordError(err)
		return nil, err
	}
	o.events.EndTracking(track, "generation response received", map[string]any{
		"response_chars": len(text),
	}, false)

	candidate, err := sanitize.Sanitize(text)
	if err != nil {
		o.publishError("sanitizer", err)
		span.RecordError(err)
		return nil, err
	}

	if err := o.gate.Check(ctx, candidate); err != nil {
		o.publishError("validator", err)
		span.RecordError(err)
		return nil, err
	}

	o.logger.Info("document accepted",
		slog.String("provider", req.Provider),
		slog.Int("sections", len(candidate)),
	)
	return candidate, nil
}

// PingProvider checks that the configured provider answers at all. The check
// runs under the tight ping timeout; the response content is returned for
// display but not judged.
func (o *Orchestrator) PingProvider(ctx context.Context) (*domain.PingResult, error) {
	strategy := provider.Lookup(o.cfg.Provider)
	settings := o.cfg.Active()

	ctx, span := o.tracer.Start(ctx, "pipeline.PingProvider",
		trace.WithAttributes(attribute.String("provider", strategy.Name())))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.PingTimeout())
	defer cancel()

	model := settings.Model
	text, err := o.ping(ctx, strategy, settings, model)

	// Responses-family models sometimes reject minimal ping payloads that the
	// provider itself serves fine. One silent fallback to a known-good model
	// keeps the liveness verdict about the provider.
	if err != nil && strategy.Name() == provider.DefaultProvider && provider.UsesResponsesAPI(model) && clientRejected(err) {
		o.logger.Debug("ping fell back to alternate model",
			slog.String("from", model),
			slog.String("to", pingFallbackModel),
		)
		model = pingFallbackModel
		text, err = o.ping(ctx, strategy, settings, model)
	}

	result := &domain.PingResult{
		Model:     model,
		Timestamp: time.Now(),
	}
	if err != nil {
		span.RecordError(err)
		return result, err
	}
	result.Success = true
	result.Response = strings.TrimSpace(text)
	return result, nil
}

func (o *Orchestrator) ping(ctx context.Context, strategy provider.Strategy, settings config.ProviderSettings, model string) (string, error) {
	req := &domain.GenerationRequest{
		Provider:        strategy.Name(),
		Model:           model,
		SystemPrompt:    "You are a connectivity probe.",
		UserPrompt:      pingPrompt,
		MaxOutputTokens: pingMaxTokens,
		Ping:            true,
	}
	desc, err := strategy.BuildRequest(req, provider.Settings{APIKey: settings.APIKey, BaseURL: settings.BaseURL})
	if err != nil {
		return "", err
	}

	track := o.events.StartTracking(eventSource, strategy.Name(), "ping dispatched", map[string]any{
		"model": model,
	})
	payload, err := o.pingClient.Do(ctx, desc)
	if err != nil {
		o.events.EndTracking(track, err.Error(), nil, true)
		return "", err
	}
	text, err := strategy.ExtractText(payload)
	if err != nil {
		o.events.EndTracking(track, err.Error(), nil, true)
		return "", err
	}
	o.events.EndTracking(track, "ping answered", nil, false)
	return text, nil
}

// publishError mirrors a terminal failure to the event bus before it is
// returned to the caller. No tracking instant is open on these paths, so the
// event carries no duration.
func (o *Orchestrator) publishError(target string, err error) {
	o.events.Publish(domain.CommunicationEvent{
		Source:  eventSource,
		Target:  target,
		Type:    domain.EventError,
		Message: err.Error(),
	})
}

// clientRejected reports a 4xx provider response that is not an auth or
// endpoint problem; those would fail the fallback model identically.
func clientRejected(err error) bool {
	var te *domain.TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode >= 400 && te.StatusCode < 500 && te.Retryable()
}

// ValidateDocument judges an externally supplied document. The candidate is
// pruned exactly like a generated one, so validation verdicts match what
// generation would accept.
func (o *Orchestrator) ValidateDocument(ctx context.Context, doc map[string]any) (*domain.ValidationReport, error) {
	ctx, span := o.tracer.Start(ctx, "pipeline.ValidateDocument")
	defer span.End()

	candidate := sanitize.Prune(doc)
	err := o.gate.Check(ctx, candidate)
	if err == nil {
		return &domain.ValidationReport{IsValid: true, Errors: []string{}, Warnings: []string{}}, nil
	}

	var ge *domain.ValidationGateError
	if errors.As(err, &ge) {
		return &domain.ValidationReport{
			IsValid:  false,
			Errors:   strings.Split(ge.Message, "\n"),
			Warnings: []string{},
		}, nil
	}
	span.RecordError(err)
	return nil, err
}
