package searchclient

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
	"time"

	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/auth"
)

// Default endpoint paths.
const (
	DefaultSearchPath = "/api/search"
	DefaultHealthPath = "/api/health"
	DefaultTimeout    = 30 * time.Second
)

// maxResponseBody bounds how much of a response is decoded.
const maxResponseBody = 8 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPaths overrides the search and health endpoint paths.
// Empty values keep the defaults.
func WithPaths(searchPath, healthPath string) Option {
	return func(c *Client) {
		if searchPath != "" {
			c.searchPath = searchPath
		}
		if healthPath != "" {
			c.healthPath = healthPath
		}
	}
}

// WithTokenSource attaches bearer tokens to search requests.
// If the source also implements auth.Refresher, a 401 triggers one refresh.
func WithTokenSource(ts auth.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit throttles requests to rps per second with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = newLimiter(rps, burst)
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client calls the article-search API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	searchPath string
	healthPath string
	http       *http.Client
	tokens     auth.TokenSource
	limiter    *limiter
	log        *zap.Logger
	now        func() time.Time
}

// New returns a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", ErrInvalidConfig, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		searchPath: DefaultSearchPath,
		healthPath: DefaultHealthPath,
		http:       &http.Client{Timeout: DefaultTimeout},
		limiter:    newLimiter(DefaultRate, DefaultBurst),
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// searchResponse covers both API shapes: the standalone API returns
// {success, mode, result, parameters}, the account-backed one {result, search}.
type searchResponse struct {
	Success    *bool                     `json:"success"`
	Mode       resultview.Mode           `json:"mode"`
	Result     *string                   `json:"result"`
	Parameters *resultview.SearchRequest `json:"parameters"`
	Search     *resultview.SearchRequest `json:"search"`
	Error      string                    `json:"error"`
	Detail     string                    `json:"detail"`
}

// Search validates req, sends it to the search path and returns the result.
// Omitted fields take the API defaults.
func (c *Client) Search(ctx context.Context, req resultview.SearchRequest) (*resultview.SearchResult, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if mode, err := resultview.ParseMode(string(req.Mode)); err == nil {
		req.Mode = mode
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrSearchFailed, err)
	}

	start := c.now()
	resp, err := c.doAuthorized(ctx, http.MethodPost, c.searchPath, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var sr searchResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&sr)

	c.log.Debug("search response",
		zap.String("mode", string(req.Mode)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", c.now().Sub(start)))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, sr.message("authentication required"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: sr.message(defaultErrorMessage)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, decodeErr)
	}
	if sr.Success != nil && !*sr.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: sr.message(defaultErrorMessage)}
	}
	if sr.Result == nil {
		return nil, fmt.Errorf("%w: missing result field", ErrBadResponse)
	}

	return sr.toResult(req), nil
}

// message returns the API's error text or fallback.
func (sr searchResponse) message(fallback string) string {
	switch {
	case sr.Error != "":
		return sr.Error
	case sr.Detail != "":
		return sr.Detail
	default:
		return fallback
	}
}

// toResult fills gaps from the request: the account-backed API omits mode.
// The mode is canonicalized so callers can compare it against the Mode
// constants.
func (sr searchResponse) toResult(req resultview.SearchRequest) *resultview.SearchResult {
	params := req
	if sr.Parameters != nil {
		params = *sr.Parameters
	} else if sr.Search != nil {
		params = *sr.Search
	}

	// First recognizable mode wins, in canonical spelling.
	mode := sr.Mode
	for _, candidate := range []resultview.Mode{sr.Mode, params.Mode, req.Mode} {
		if m, err := resultview.ParseMode(string(candidate)); err == nil {
			mode = m
			break
		}
	}

	return &resultview.SearchResult{
		Mode:       mode,
		Result:     *sr.Result,
		Parameters: params,
	}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Healthy reports whether the API declared itself healthy.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// Health queries the health endpoint. It sends no credentials.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.send(ctx, http.MethodGet, c.healthPath, nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrHealthFailed, resp.StatusCode)
	}

	var hs HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&hs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if !hs.Healthy() {
		return &hs, fmt.Errorf("%w: status %q", ErrHealthFailed, hs.Status)
	}
	return &hs, nil
}

// doAuthorized sends a request with the current bearer token.
// On 401 it refreshes once, when the token source supports it, and retries.
func (c *Client) doAuthorized(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || token == "" {
		return resp, nil
	}

	refresher, ok := c.tokens.(auth.Refresher)
	if !ok {
		return resp, nil
	}
	_ = resp.Body.Close()

	c.log.Debug("access token rejected, refreshing")
	token, err = refresher.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return c.send(ctx, method, path, body, token)
}

// accessToken returns "" when no source is set or no session exists.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens.AccessToken(ctx)
	switch {
	case errors.Is(err, auth.ErrNoSession):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return token, nil
}

// send performs one throttled request. A 429 records backoff for later calls.
func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(resp.Header.Get("Retry-After"), c.now())
		c.log.Warn("search API rate limit hit", zap.String("retry_after", resp.Header.Get("Retry-After")))
	}
	return resp, nil
}
