package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer token for API requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Refresher can replace a rejected access token.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

var (
	_ TokenSource = (*Session)(nil)
	_ Refresher   = (*Session)(nil)
)

// Default endpoint paths of the token API.
const (
	DefaultTokenPath   = "/api/token/"
	DefaultRefreshPath = "/api/token/refresh/"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(s *Session) {
		if c != nil {
			s.client = c
		}
	}
}

// WithPaths overrides the token and refresh endpoint paths. Empty keeps the default.
func WithPaths(tokenPath, refreshPath string) SessionOption {
	return func(s *Session) {
		if tokenPath != "" {
			s.tokenPath = tokenPath
		}
		if refreshPath != "" {
			s.refreshPath = refreshPath
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session logs in against the token API and keeps the access token fresh.
// Safe for concurrent use; concurrent refreshes are serialized.
type Session struct {
	store       TokenStore
	baseURL     string
	tokenPath   string
	refreshPath string
	client      *http.Client
	log         *zap.Logger
	now         func() time.Time
	mu          sync.Mutex
}

// NewSession creates a Session for the API at baseURL.
func NewSession(store TokenStore, baseURL string, opts ...SessionOption) *Session {
	s := &Session{
		store:       store,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenPath:   DefaultTokenPath,
		refreshPath: DefaultRefreshPath,
		client:      &http.Client{Timeout: 30 * time.Second},
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair and stores it.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrLoginFailed)
	}

	var tok tokenResponse
	status, err := s.post(ctx, s.tokenPath, loginRequest{Username: username, Password: password}, &tok)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if tok.Access == "" {
		return fmt.Errorf("%w: response has no access token (status %d)", ErrLoginFailed, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SetTokens(Pair{Username: username, Access: tok.Access, Refresh: tok.Refresh}); err != nil {
		return err
	}
	s.log.Debug("logged in", zap.String("user", username))
	return nil
}

// AccessToken returns a usable access token, refreshing it first when expired.
// Returns ErrNoSession if nobody is logged in and ErrSessionExpired if the
// refresh token is no longer valid.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, err := s.store.Tokens()
	if err != nil {
		return "", err
	}
	if !Expired(pair.Access, s.now()) {
		return pair.Access, nil
	}
	return s.refreshLocked(ctx, pair)
}

// Refresh replaces the access token regardless of its expiry, for use after
// the API rejected it.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, err := s.store.Tokens()
	if err != nil {
		return "", err
	}
	return s.refreshLocked(ctx, pair)
}

func (s *Session) refreshLocked(ctx context.Context, pair Pair) (string, error) {
	if pair.Refresh == "" || Expired(pair.Refresh, s.now()) {
		s.expire()
		return "", ErrSessionExpired
	}

	var tok tokenResponse
	status, err := s.post(ctx, s.refreshPath, refreshRequest{Refresh: pair.Refresh}, &tok)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			s.expire()
			return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if tok.Access == "" {
		return "", fmt.Errorf("%w: response has no access token", ErrRefreshFailed)
	}

	pair.Access = tok.Access
	// Rotating servers send a new refresh token too
	if tok.Refresh != "" {
		pair.Refresh = tok.Refresh
	}
	if err := s.store.SetTokens(pair); err != nil {
		return "", err
	}
	s.log.Debug("refreshed access token")
	return pair.Access, nil
}

// expire clears a dead session so the next call reports ErrNoSession.
func (s *Session) expire() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn("clearing expired session", zap.Error(err))
	}
}

// Logout forgets the stored session.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear()
}

// Username returns the logged-in user, or "" if there is no session.
func (s *Session) Username() string {
	pair, err := s.store.Tokens()
	if err != nil {
		return ""
	}
	return pair.Username
}

// post sends body as JSON and decodes a 2xx response into out.
// The status code is returned even on error, 0 if no response arrived.
func (s *Session) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, errorDetail(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %v", err)
	}
	return resp.StatusCode, nil
}

// errorDetail extracts the message from a token API error body:
// {"detail": "..."} or {"error": "..."}, else the raw text.
func errorDetail(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "no details"
	}
	return text
}
