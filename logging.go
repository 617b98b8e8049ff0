package unitedlogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// APIPath is appended to the domain to form the endpoint.
const APIPath = "/api/v1/log"

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 1 << 20
	maxErrorBody    = 512
)

// Client posts events to a united-logs endpoint. It is immutable after New and
// safe for concurrent use.
type Client struct {
	apiKey      string
	environment string
	endpoint    string
	levels      levelSet
	client      *http.Client
	logger      Logger
}

type options struct {
	domain     string
	levels     []string
	resolver   DomainResolver
	httpClient *http.Client
	timeout    time.Duration
	logger     Logger
}

type Option func(*options)

// WithDomain overrides Config.Domain.
func WithDomain(domain string) Option {
	return func(o *options) { o.domain = domain }
}

// WithLevels overrides Config.Levels.
func WithLevels(levels ...Level) Option {
	return func(o *options) {
		o.levels = make([]string, len(levels))
		for i, l := range levels {
			o.levels[i] = string(l)
		}
	}
}

// WithDomainResolver sets the fallback used when no domain is given.
// Pass nil to disable the fallback entirely.
func WithDomainResolver(r DomainResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithHTTPClient replaces the default client; its Timeout applies to every send.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the timeout of the default HTTP client. It is ignored when
// WithHTTPClient is also used.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets where the client reports its own diagnostics.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// New validates cfg and builds a client. Errors are always *ConfigurationError.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := options{
		domain:   cfg.Domain,
		levels:   cfg.Levels,
		resolver: DefaultEnvDomain,
		timeout:  cfg.Timeout,
		logger:   &NoOpLogger{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Field: "api_key", Err: ErrMissingAPIKey}
	}
	if cfg.Environment == "" {
		return nil, &ConfigurationError{Field: "environment", Err: ErrMissingEnvironment}
	}

	levels, err := newLevelSet(o.levels)
	if err != nil {
		return nil, &ConfigurationError{Field: "levels", Err: err}
	}

	domain := o.domain
	if domain == "" && o.resolver != nil {
		domain, _ = o.resolver.Resolve()
	}
	if domain == "" {
		return nil, &ConfigurationError{Field: "domain", Err: ErrMissingDomain}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		timeout := o.timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if o.logger == nil {
		o.logger = &NoOpLogger{}
	}

	return &Client{
		apiKey:      cfg.APIKey,
		environment: cfg.Environment,
		endpoint:    strings.TrimRight(domain, "/") + APIPath,
		levels:      levels,
		client:      httpClient,
		logger:      o.logger,
	}, nil
}

// NewClient mirrors the positional constructor: key, environment, then options.
func NewClient(apiKey, environment string, opts ...Option) (*Client, error) {
	return New(Config{APIKey: apiKey, Environment: environment}, opts...)
}

// Endpoint returns the resolved base URL, ending in /api/v1/log.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Environment returns the environment tag sent with every event.
func (c *Client) Environment() string {
	return c.environment
}

// Enabled reports whether events at level are sent.
func (c *Client) Enabled(level Level) bool {
	return c.levels.has(level)
}

// Levels returns the enabled levels in canonical order.
func (c *Client) Levels() []Level {
	out := make([]Level, 0, len(c.levels))
	for _, l := range AllLevels() {
		if c.levels.has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Error sends an event at LevelError.
func (c *Client) Error(message, category string, params Params) bool {
	return c.Send(context.Background(), LevelError, message, category, params).Success
}

// Warning sends an event at LevelWarning.
func (c *Client) Warning(message, category string, params Params) bool {
	return c.Send(context.Background(), LevelWarning, message, category, params).Success
}

// Info sends an event at LevelInfo.
func (c *Client) Info(message, category string, params Params) bool {
	return c.Send(context.Background(), LevelInfo, message, category, params).Success
}

// Success sends an event at LevelSuccess.
func (c *Client) Success(message, category string, params Params) bool {
	return c.Send(context.Background(), LevelSuccess, message, category, params).Success
}

// ErrorContext is Error with ctx forwarded to the request.
func (c *Client) ErrorContext(ctx context.Context, message, category string, params Params) bool {
	return c.Send(ctx, LevelError, message, category, params).Success
}

// WarningContext is Warning with ctx forwarded to the request.
func (c *Client) WarningContext(ctx context.Context, message, category string, params Params) bool {
	return c.Send(ctx, LevelWarning, message, category, params).Success
}

// InfoContext is Info with ctx forwarded to the request.
func (c *Client) InfoContext(ctx context.Context, message, category string, params Params) bool {
	return c.Send(ctx, LevelInfo, message, category, params).Success
}

// SuccessContext is Success with ctx forwarded to the request.
func (c *Client) SuccessContext(ctx context.Context, message, category string, params Params) bool {
	return c.Send(ctx, LevelSuccess, message, category, params).Success
}

// Result describes the outcome of a single Send.
type Result struct {
	Level      Level
	EventID    string
	Success    bool
	StatusCode int
	Err        error
}

type ingestResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Send posts one event and reports the outcome. It never panics and never
// retries; a disabled level returns ErrLevelDisabled without touching the network.
func (c *Client) Send(ctx context.Context, level Level, message, category string, params Params) Result {
	result := Result{Level: level}
	if !c.levels.has(level) {
		result.Err = ErrLevelDisabled
		return result
	}

	form := url.Values{}
	form.Set("api", c.apiKey)
	form.Set("environment", c.environment)
	form.Set("message", message)
	form.Set("category", category)
	if err := params.encodeInto(form); err != nil {
		c.logger.Warn("dropping event with invalid params", "level", level, "error", err)
		result.Err = err
		return result
	}

	if ctx == nil {
		ctx = context.Background()
	}
	target := c.endpoint + "/" + string(level)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Warn("failed to create log request", "url", target, "error", err)
		result.Err = fmt.Errorf("create request: %w", err)
		return result
	}
	result.EventID = uuid.New().String()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-Id", result.EventID)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("log request failed", "url", target, "event_id", result.EventID, "error", err)
		result.Err = fmt.Errorf("send log: %w", err)
		return result
	}
	defer resp.Body.Close()
	result.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		result.Err = fmt.Errorf("read response: %w", err)
		return result
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Err = &StatusError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBody)}
		c.logger.Debug("log endpoint rejected event", "url", target, "event_id", result.EventID, "status", resp.StatusCode)
		return result
	}

	var parsed ingestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		result.Err = fmt.Errorf("decode response: %w", err)
		return result
	}
	if parsed.Success == nil {
		result.Err = ErrNoSuccessField
		return result
	}

	result.Success = *parsed.Success
	if !result.Success && parsed.Error != "" {
		result.Err = fmt.Errorf("rejected: %s", parsed.Error)
	}
	c.logger.Debug("log sent", "level", level, "event_id", result.EventID, "success", result.Success)
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
