package backend

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
	"strings"

	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/telemetry/tracing"
)

// Response is the backend's reply, relayed to the caller unchanged.
type Response struct {
	// StatusCode is the HTTP status returned by the backend
	StatusCode int

	// Body is the raw response body
	Body []byte
}

// Client posts inference payloads to the backend completion endpoint.
// It makes exactly one attempt per call; there is no retry.
type Client struct {
	endpoint string
	client   *http.Client
}

// New creates a backend client from the given configuration.
// The endpoint is resolved once; later configuration changes do not affect it.
func New(cfg *config.BackendConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("backend config is nil")
	}
	if cfg.URL == "" {
		return nil, errors.New("backend URL is empty")
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.URL, "/") + cfg.CompletionPath,
		client: &http.Client{
			// Covers connect, headers and body read
			Timeout: cfg.Timeout,
			// A redirect is the backend's answer, not a second hop
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Endpoint returns the URL payloads are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Complete posts the payload to the backend and returns its response.
// Any HTTP status is a response; only transport failures return an error,
// always of type *TransportError.
func (c *Client) Complete(ctx context.Context, payload json.RawMessage) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{URL: c.endpoint, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.Inject(ctx, req.Header)

	slog.Debug("sending request to backend",
		"url", c.endpoint,
		"bytes", len(payload),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.endpoint, Timeout: isTimeout(err), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			URL:     c.endpoint,
			Timeout: isTimeout(err),
			Cause:   fmt.Errorf("failed to read response: %w", err),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
