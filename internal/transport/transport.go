// Package transport executes one HTTP exchange against a provider endpoint.
// Connections are persistent and reused across retries, response timeouts
// are sized for generations that run tens of minutes, and every failure is
// classified into a typed kind at this boundary so no caller ever matches on
// message substrings.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/docforge/docforge/internal/domain"
)

const (
	// errorBodyLimit bounds how much of a non-2xx body lands in the error
	// message.
	errorBodyLimit = 512
)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, used by tests and VCR
// recorders.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client performs provider exchanges.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a transport client. responseTimeout bounds one whole exchange;
// generation calls pass the long generation timeout, pings pass a tight one.
func New(responseTimeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	// One effective connection per logical call, kept alive across retries
	// so backoff loops do not pay a fresh TCP/TLS handshake per attempt.
	base := &http.Transport{
		MaxIdleConns:        2,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     5 * time.Minute,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   responseTimeout,
			Transport: otelhttp.NewTransport(base),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes the exchange described by desc and returns the decoded JSON
// body. There is no artificial payload-size cap: generated documents can be
// large.
func (c *Client) Do(ctx context.Context, desc *domain.RequestDescriptor) (map[string]any, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, desc.URL, bytes.NewReader(desc.Body))
	if err != nil {
		return nil, domain.NewTransportError(domain.TransportGeneric, "failed to build request", err)
	}
	for k, v := range desc.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		kind := Classify(err)
		c.logger.Debug("exchange failed",
			slog.String("url", desc.URL),
			slog.String("kind", string(kind)),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, domain.NewTransportError(kind, err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(Classify(err), "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := body
		if len(excerpt) > errorBodyLimit {
			excerpt = excerpt[:errorBodyLimit]
		}
		return nil, domain.NewTransportError(
			domain.TransportGeneric,
			fmt.Sprintf("provider returned %s: %s", resp.Status, string(excerpt)),
			nil,
		).WithStatus(resp.StatusCode)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewProviderProtocolError("", "response body is not a JSON object: %v", err)
	}

	c.logger.Debug("exchange completed",
		slog.String("url", desc.URL),
		slog.Int("status", resp.StatusCode),
		slog.Int("body_bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return payload, nil
}

// Classify maps a low-level network error onto a transport kind. The switch
// runs on error types and errno values, never message text.
func Classify(err error) domain.TransportErrorKind {
	if err == nil {
		return domain.TransportGeneric
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TransportTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.TransportTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.TransportDNS
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.TransportReset
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.TransportRefused
	}

	return domain.TransportGeneric
}
