package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/docforge/docforge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func descriptorFor(url string) *domain.RequestDescriptor {
	return &domain.RequestDescriptor{
		URL:     url,
		Body:    []byte(`{"model":"test"}`),
		Headers: map[string]string{"Content-Type": "application/json"},
	}
}

func TestDoDecodesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		w.Write([]byte(`{"output_text":"hello"}`))
	}))
	defer srv.Close()

	c := New(time.Minute, testLogger())
	payload, err := c.Do(context.Background(), descriptorFor(srv.URL))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if payload["output_text"] != "hello" {
		t.Errorf("payload = %v", payload)
	}
}

func TestDoNonOKStatusCarriesStatusAndExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	c := New(time.Minute, testLogger())
	_, err := c.Do(context.Background(), descriptorFor(srv.URL))

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want TransportError", err)
	}
	if te.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", te.StatusCode)
	}
	if te.Retryable() {
		t.Error("401 must not be retryable")
	}
}

func TestDoTimeoutClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(20*time.Millisecond, testLogger())
	_, err := c.Do(context.Background(), descriptorFor(srv.URL))

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want TransportError", err)
	}
	if te.Kind != domain.TransportTimeout {
		t.Errorf("kind = %s, want timeout", te.Kind)
	}
	if !te.Retryable() {
		t.Error("timeouts are retryable")
	}
}

func TestDoConnectionRefusedClassification(t *testing.T) {
	// Grab a port nothing listens on.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	c := New(time.Second, testLogger())
	_, err = c.Do(context.Background(), descriptorFor("http://"+addr))

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want TransportError", err)
	}
	if te.Kind != domain.TransportRefused {
		t.Errorf("kind = %s, want connection_refused", te.Kind)
	}
}

func TestDoNonJSONBodyIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := New(time.Minute, testLogger())
	_, err := c.Do(context.Background(), descriptorFor(srv.URL))

	var pe *domain.ProviderProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want ProviderProtocolError", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.TransportErrorKind
	}{
		{"deadline", context.DeadlineExceeded, domain.TransportTimeout},
		{"net timeout", timeoutErr{}, domain.TransportTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.example.com", IsNotFound: true}, domain.TransportDNS},
		{"reset", syscall.ECONNRESET, domain.TransportReset},
		{"unexpected eof", io.ErrUnexpectedEOF, domain.TransportReset},
		{"refused", syscall.ECONNREFUSED, domain.TransportRefused},
		{"plain", errors.New("weird"), domain.TransportGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}
