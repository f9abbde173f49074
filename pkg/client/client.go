package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-postgen/pkg/content"
)

const (
	// DefaultGeneratePath is the generation route relative to the endpoint.
	DefaultGeneratePath = "/api/generate"
	// DefaultHealthPath is the upstream health route relative to the endpoint.
	DefaultHealthPath = "/health"

	// RequestIDHeader carries the per-submission correlation id.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 4 << 20
)

// Generator is the contract the form controller submits through.
type Generator interface {
	Generate(ctx context.Context, req content.Request) (content.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport. Nil keeps http.DefaultClient.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithGeneratePath overrides the generation route, typically with the path
// declared by the OpenAPI operation backing the form.
func WithGeneratePath(path string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			c.generatePath = trimmed
		}
	}
}

// WithHealthPath overrides the upstream health route.
func WithHealthPath(path string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			c.healthPath = trimmed
		}
	}
}

// WithUserAgent sets the User-Agent header on outbound requests.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDFunc overrides how request ids are minted.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// Client talks to the remote content-generation API. It issues exactly one
// request per call and never retries.
type Client struct {
	endpoint     string
	generatePath string
	healthPath   string
	userAgent    string
	http         *http.Client
	logger       *zap.Logger
	requestID    func() string
}

var _ Generator = (*Client)(nil)

// New constructs a Client for the API rooted at endpoint.
func New(endpoint string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if trimmed == "" {
		return nil, errors.New("client: endpoint is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("client: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: endpoint %q must use http or https", endpoint)
	}

	c := &Client{
		endpoint:     trimmed,
		generatePath: DefaultGeneratePath,
		healthPath:   DefaultHealthPath,
		http:         http.DefaultClient,
		logger:       zap.NewNop(),
		requestID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Endpoint returns the API root the client was built with.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// GenerateURL returns the absolute generation URL.
func (c *Client) GenerateURL() string {
	return c.resolve(c.generatePath)
}

// Generate posts the request and decodes the response. Transport failures
// return *NetworkError; failed responses return *APIError.
func (c *Client) Generate(ctx context.Context, req content.Request) (content.Response, error) {
	if ctx == nil {
		return content.Response{}, errors.New("client: context is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return content.Response{}, fmt.Errorf("client: encode request: %w", err)
	}

	target := c.GenerateURL()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return content.Response{}, fmt.Errorf("client: create request: %w", err)
	}
	requestID := c.requestID()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	logger := c.logger.With(zap.String("request_id", requestID), zap.String("url", target))
	logger.Debug("sending generation request", zap.Int("instruction_len", len(req.UserInstruction)))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn("generation request failed", zap.Error(err))
		return content.Response{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("read generation response", zap.Error(err))
		return content.Response{}, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractDetail(body)
		logger.Info("generation api returned failure",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		return content.Response{}, &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var decoded content.Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		logger.Warn("decode generation response", zap.Error(err))
		return content.Response{}, fmt.Errorf("client: decode response: %w", err)
	}
	if !decoded.Success {
		detail := decoded.Error
		if detail == "" {
			detail = extractDetail(body)
		}
		return content.Response{}, &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	logger.Debug("generation request succeeded", zap.Int("status", resp.StatusCode))
	return decoded, nil
}

// Health queries the upstream health route.
func (c *Client) Health(ctx context.Context) (content.Health, error) {
	if ctx == nil {
		return content.Health{}, errors.New("client: context is required")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(c.healthPath), nil)
	if err != nil {
		return content.Health{}, fmt.Errorf("client: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, c.requestID())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return content.Health{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return content.Health{}, &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content.Health{}, &APIError{StatusCode: resp.StatusCode, Detail: extractDetail(body)}
	}

	var health content.Health
	if err := json.Unmarshal(body, &health); err != nil {
		return content.Health{}, fmt.Errorf("client: decode health: %w", err)
	}
	return health, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.endpoint + path
}

// extractDetail returns the string value of the body's detail field. Any
// other shape (missing, non-JSON, structured validation lists) yields "".
func extractDetail(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
