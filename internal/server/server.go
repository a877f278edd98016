package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/assets"
	"github.com/alnah/go-resultview/internal/metrics"
)

// Searcher runs a search against the remote API.
type Searcher interface {
	Search(ctx context.Context, req resultview.SearchRequest) (*resultview.SearchResult, error)
}

// ResultRenderer turns a search result into HTML.
type ResultRenderer interface {
	Render(ctx context.Context, input resultview.Input) (*resultview.RenderResult, error)
	Engine() resultview.Engine
}

// Server timeouts.
const (
	DefaultReadTimeout = 10 * time.Second
	// writeTimeout covers a full upstream search plus rendering.
	writeTimeout    = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
	// maxFormBytes bounds the search form body.
	maxFormBytes = 64 << 10
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records request, search and render metrics and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithStyle sets the CSS inlined into the search page.
func WithStyle(css string) Option {
	return func(s *Server) {
		s.css = css
	}
}

// WithDefaultEmail sets the contact email used when the form leaves it empty.
func WithDefaultEmail(email string) Option {
	return func(s *Server) {
		s.email = email
	}
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithReadTimeout bounds how long a client may take to send a request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// Server is the HTTP front-end: a search form that renders API results.
type Server struct {
	searcher    Searcher
	renderer    ResultRenderer
	page        *template.Template
	css         string
	email       string
	version     string
	readTimeout time.Duration
	log         *zap.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// New builds a server around a search client and a renderer.
func New(searcher Searcher, renderer ResultRenderer, opts ...Option) (*Server, error) {
	if searcher == nil || renderer == nil {
		return nil, errors.New("server: searcher and renderer are required")
	}

	tmpl, err := assets.LoadTemplate(assets.SearchTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading search page: %w", err)
	}
	page, err := template.New(assets.SearchTemplateName).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	s := &Server{
		searcher:    searcher,
		renderer:    renderer,
		page:        page,
		version:     "dev",
		readTimeout: DefaultReadTimeout,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s.withRequestID(s.withAccessLog(mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
