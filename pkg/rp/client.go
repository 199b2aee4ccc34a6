package rp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"rpclient/internal/logging"
)

const (
	contentTypeJSON = "application/json"
	bearerPrefix    = "Bearer "
)

// Client reports launches, test items and logs to one Report Portal project.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	endpoint   *url.URL
	project    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client from cfg. The HTTP client is created once here and
// shared by every call.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint, err := url.Parse(strings.TrimSuffix(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint: %v", ErrInvalidConfig, err)
	}

	cc := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cc); err != nil {
			return nil, err
		}
	}

	httpClient := cc.httpClient
	if httpClient == nil {
		httpClient = newPooledHTTPClient(cfg.Connection)
	} else {
		httpClient = withoutRedirects(httpClient)
	}

	logger := cc.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Debug("client configured",
		"endpoint", endpoint.String(),
		"project", cfg.Project,
		"api_key", logging.MaskSecret(cfg.APIKey),
	)

	return &Client{
		endpoint:   endpoint,
		project:    cfg.Project,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the pooled HTTP client. Redirect following is
// disabled on a copy of c.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		if c == nil {
			return fmt.Errorf("%w: nil http client", ErrInvalidConfig)
		}
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// Project returns the project every request is scoped to.
func (c *Client) Project() string { return c.project }

// doJSON sends payload as a JSON body and decodes a successful response into dst.
func (c *Client) doJSON(ctx context.Context, method string, u *url.URL, operation string, payload, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", operation, err)
	}
	return c.do(ctx, method, u, operation, bytes.NewReader(body), contentTypeJSON, dst)
}

// do executes one HTTP round trip and hands the outcome to handleResponse.
// Transport failures are returned wrapped, not translated.
func (c *Client) do(ctx context.Context, method string, u *url.URL, operation string, body io.Reader, contentType string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Authorization", bearerPrefix+c.apiKey)
	req.Header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.InfoContext(ctx, "API request", "operation", operation, "method", method, "url", u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", operation, err)
	}

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	return handleResponse(operation, resp.StatusCode, respBody, dst)
}
