package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/assets"
	"github.com/alnah/go-resultview/internal/auth"
	"github.com/alnah/go-resultview/internal/config"
	"github.com/alnah/go-resultview/internal/fileutil"
	"github.com/alnah/go-resultview/internal/hints"
	"github.com/alnah/go-resultview/internal/logger"
	"github.com/alnah/go-resultview/internal/searchclient"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidExtension   = errors.New("file must have .md, .markdown, .txt or .json extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidFormat      = errors.New("invalid output format")
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// runMain dispatches a command and returns the process exit code.
// args excludes the program name.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "search":
		err = runSearch(ctx, rest, env)
	case "login":
		err = runLogin(ctx, rest, env)
	case "logout":
		err = runLogout(rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "resultview %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error) string {
	var apiErr *searchclient.APIError
	switch {
	case errors.Is(err, resultview.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(err))
	case errors.Is(err, resultview.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.Names(assets.KindStyle))
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, searchclient.ErrUnreachable):
		return hints.ForAPIUnreachable(apiURLFrom(err))
	case errors.Is(err, searchclient.ErrUnauthorized),
		errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrNoSession):
		return hints.ForSessionExpired()
	case errors.As(err, &apiErr) && apiErr.Status == 401:
		return hints.ForSessionExpired()
	}
	return ""
}

// configSearchPaths extracts the tried paths listed in a not-found error.
func configSearchPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// apiURLFrom recovers the base URL recorded by withAPIURL.
func apiURLFrom(err error) string {
	var u *apiURLError
	if errors.As(err, &u) {
		return u.url
	}
	return ""
}

// apiURLError tags an error with the API base URL it concerns.
type apiURLError struct {
	url string
	err error
}

func (e *apiURLError) Error() string { return e.err.Error() }
func (e *apiURLError) Unwrap() error { return e.err }

func withAPIURL(err error, url string) error {
	if err == nil {
		return nil
	}
	return &apiURLError{url: url, err: err}
}

// setMaxProcs adjusts GOMAXPROCS to the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(log *zap.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))
}

// newLogger builds the CLI logger. Quiet keeps only errors.
func newLogger(env *Environment, f commonFlags) *zap.Logger {
	log := logger.New(env.Stderr, f.verbose)
	if f.quiet {
		return log.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
	}
	return log
}

// loadConfig builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
// Flags are merged by the caller before calling Validate.
func loadConfig(f commonFlags, envCfg *envConfig) (*config.Config, error) {
	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeAPIFlags applies API flags to cfg.
func mergeAPIFlags(f apiFlags, cfg *config.Config) {
	if f.url != "" {
		cfg.API.BaseURL = f.url
	}
	if f.timeout != "" {
		cfg.API.Timeout = f.timeout
	}
}

// mergeStyleFlags applies rendering flags to cfg. A style given as a file
// path is not a style name, so it stays out of the config.
func mergeStyleFlags(f styleFlags, cfg *config.Config) {
	if f.mode != "" {
		cfg.Render.Mode = f.mode
	}
	if f.engine != "" {
		cfg.Render.Engine = f.engine
	}
	if f.style != "" && !fileutil.IsFilePath(f.style) {
		cfg.Render.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.title != "" {
		cfg.Render.Title = f.title
	}
	if f.date != "" {
		cfg.Render.Date = f.date
	}
}

// mergeOutputFlags applies output flags to cfg.
func mergeOutputFlags(f outputFlags, cfg *config.Config) {
	if f.format != "" {
		cfg.Output.Format = strings.ToLower(f.format)
	}
}

// rendererOptions maps the config to Renderer options.
func rendererOptions(cfg *config.Config, timeout time.Duration, log *zap.Logger) []resultview.Option {
	opts := []resultview.Option{
		resultview.WithEngine(resultview.Engine(strings.ToLower(cfg.Render.Engine))),
		resultview.WithLogger(log),
	}
	if cfg.Render.Style != "" {
		opts = append(opts, resultview.WithStyle(cfg.Render.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, resultview.WithAssetPath(cfg.Assets.BasePath))
	}
	if timeout > 0 {
		opts = append(opts, resultview.WithTimeout(timeout))
	}
	return opts
}

// resolveUserCSS reads --style when it names a CSS file.
func resolveUserCSS(style string) (string, error) {
	if style == "" || !fileutil.IsFilePath(style) {
		return "", nil
	}
	data, err := os.ReadFile(style) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// pageSettings builds PDF page settings from flags, or nil for defaults.
func pageSettings(f outputFlags) *resultview.PageSettings {
	if f.pageSize == "" && !f.landscape && f.margin == 0 {
		return nil
	}
	return &resultview.PageSettings{
		Size:      strings.ToLower(f.pageSize),
		Landscape: f.landscape,
		Margin:    f.margin,
	}
}

// parseTimeout parses a --timeout value. Empty means no override.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: --timeout %q must be a positive duration", ErrUsage, s)
	}
	return d, nil
}

// tokenStore returns the session token store for cfg.
func tokenStore(cfg *config.Config) (*auth.FileStore, error) {
	path := cfg.Auth.TokenFile
	if path == "" {
		dir, err := config.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: locating config directory: %v", auth.ErrTokenStore, err)
		}
		path = filepath.Join(dir, "tokens.yaml")
	}
	return auth.NewFileStore(path), nil
}

// newSession builds the auth session for cfg.
func newSession(cfg *config.Config, log *zap.Logger) (*auth.Session, error) {
	store, err := tokenStore(cfg)
	if err != nil {
		return nil, err
	}
	return auth.NewSession(store, cfg.API.BaseURL,
		auth.WithHTTPClient(&http.Client{Timeout: cfg.API.RequestTimeout()}),
		auth.WithPaths(cfg.API.TokenPath, cfg.API.RefreshPath),
		auth.WithSessionLogger(log),
	), nil
}

// newSearchClient builds an authenticated search client for cfg.
func newSearchClient(cfg *config.Config, session *auth.Session, log *zap.Logger) (*searchclient.Client, error) {
	opts := []searchclient.Option{
		searchclient.WithHTTPClient(&http.Client{Timeout: cfg.API.RequestTimeout()}),
		searchclient.WithPaths(cfg.API.SearchPath, cfg.API.HealthPath),
		searchclient.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		searchclient.WithLogger(log),
	}
	if session != nil {
		opts = append(opts, searchclient.WithTokenSource(session))
	}
	return searchclient.New(cfg.API.BaseURL, opts...)
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
