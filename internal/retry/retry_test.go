package retry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/docforge/docforge/internal/domain"
)

// fakeClock collects requested delays instead of sleeping.
type fakeClock struct {
	delays []time.Duration
}

func (f *fakeClock) sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

func newTestExecutor() (*Executor, *fakeClock) {
	clock := &fakeClock{}
	ex := New(slog.New(slog.DiscardHandler))
	ex.sleep = clock.sleep
	return ex, clock
}

func resetError() error {
	return domain.NewTransportError(domain.TransportReset, "connection reset by peer", nil)
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	ex, clock := newTestExecutor()
	calls := 0

	got, err := Do(context.Background(), ex, 3, 100*time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("got %q after %d calls, want ok after 1", got, calls)
	}
	if len(clock.delays) != 0 {
		t.Errorf("unexpected backoff waits: %v", clock.delays)
	}
}

func TestDoRetriesKTimesThenSucceeds(t *testing.T) {
	const k = 3
	ex, clock := newTestExecutor()
	calls := 0

	got, err := Do(context.Background(), ex, 5, 100*time.Millisecond, func(context.Context) (string, error) {
		calls++
		if calls <= k {
			return "", resetError()
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want ok", got)
	}
	if calls != k+1 {
		t.Errorf("total calls = %d, want %d", calls, k+1)
	}
	if len(clock.delays) != k {
		t.Fatalf("backoff waits = %d, want %d", len(clock.delays), k)
	}
	for i, d := range clock.delays {
		want := 100 * time.Millisecond << uint(i)
		if d < want {
			t.Errorf("delay %d = %v, want >= %v", i, d, want)
		}
	}
}

func TestDoExhaustsRetriesAndPropagatesLastError(t *testing.T) {
	ex, clock := newTestExecutor()
	calls := 0

	_, err := Do(context.Background(), ex, 2, 50*time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, resetError()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Errorf("final error lost its type: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	// No delay follows the final failed attempt.
	if len(clock.delays) != 2 {
		t.Errorf("backoff waits = %d, want 2", len(clock.delays))
	}
}

func TestDoAbortsOnAuthStatus(t *testing.T) {
	ex, clock := newTestExecutor()
	calls := 0

	_, err := Do(context.Background(), ex, 10, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, domain.NewTransportError(domain.TransportGeneric, "unauthorized", nil).WithStatus(401)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want exactly 1 for a 401", calls)
	}
	if len(clock.delays) != 0 {
		t.Errorf("401 must not wait, got %v", clock.delays)
	}
}

func TestDoAbortsOnNonTransportError(t *testing.T) {
	ex, _ := newTestExecutor()
	calls := 0

	_, err := Do(context.Background(), ex, 10, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, domain.NewProviderProtocolError("openai", "unrecognized shape")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ex := New(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, ex, 3, time.Hour, func(context.Context) (int, error) {
		return 0, resetError()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
