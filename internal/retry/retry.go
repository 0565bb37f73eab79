// Package retry wraps fallible operations with bounded exponential-backoff
// retry. Classification is tag-based: only errors the domain package marks
// retryable are attempted again.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docforge/docforge/internal/domain"
)

// Executor runs operations with retry. The zero value is usable; New wires a
// logger.
type Executor struct {
	logger *slog.Logger
	// sleep waits for the backoff delay, honoring ctx cancellation.
	// Overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an executor logging retries through logger.
func New(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs op up to maxRetries+1 times. Non-retryable failures (authentication,
// authorization, not-found, and every non-transport error kind) abort
// immediately. The delay before re-running after failed attempt n is
// baseDelay*2^n; no delay follows the final failed attempt — its error
// propagates unchanged.
func Do[T any](ctx context.Context, ex *Executor, maxRetries int, baseDelay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if ex == nil {
		ex = New(nil)
	}
	if ex.sleep == nil {
		ex.sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !domain.IsRetryable(err) {
			return zero, err
		}
		if attempt == maxRetries {
			break
		}

		delay := baseDelay << uint(attempt)
		ex.logger.Debug("retrying after failure",
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", maxRetries),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if err := ex.sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry canceled: %w", err)
		}
	}

	return zero, lastErr
}
