package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/assets"
	"github.com/alnah/go-resultview/internal/config"
	"github.com/alnah/go-resultview/internal/logger"
	"github.com/alnah/go-resultview/internal/metrics"
	"github.com/alnah/go-resultview/internal/server"
)

// runServe runs the web front-end until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f := &serveFlags{}
	fs := newServeFlagSet(f, printServeUsage, env.Stderr)
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	log := newLogger(env, f.common)
	if f.logJSON {
		log = logger.NewJSON(env.Stderr, f.common.verbose)
	}
	defer func() { _ = log.Sync() }()

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(f.common, envCfg)
	if err != nil {
		return err
	}
	mergeAPIFlags(f.api, cfg)
	mergeStyleFlags(f.style, cfg)
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setMaxProcs(log)

	css, err := pageCSS(cfg, f.style.style)
	if err != nil {
		return err
	}

	r, err := resultview.NewRenderer(rendererOptions(cfg, 0, log)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	session, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	client, err := newSearchClient(cfg, session, log)
	if err != nil {
		return err
	}

	email := f.email
	if email == "" {
		email = envCfg.Email
	}
	opts := []server.Option{
		server.WithLogger(log),
		server.WithStyle(css),
		server.WithDefaultEmail(email),
		server.WithVersion(Version),
		server.WithReadTimeout(cfg.Server.ReadTimeoutDuration()),
	}
	if !f.noMetrics {
		opts = append(opts, server.WithMetrics(metrics.New()))
	}

	srv, err := server.New(client, r, opts...)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if addr == "" {
		addr = config.DefaultAddr
	}
	log.Info("starting front-end",
		zap.String("addr", addr),
		zap.String("api", client.BaseURL()),
		zap.Bool("metrics", !f.noMetrics))
	return srv.Run(ctx, addr)
}

// pageCSS returns the stylesheet for served pages. A style given as a
// file path wins over the configured style name.
func pageCSS(cfg *config.Config, style string) (string, error) {
	css, err := resolveUserCSS(style)
	if err != nil || css != "" {
		return css, err
	}

	name := cfg.Render.Style
	if name == "" {
		name = assets.DefaultStyleName
	}
	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", resultview.ErrInvalidAssetPath, err)
	}
	css, err = resolver.LoadStyle(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", resultview.ErrStyleNotFound, name, err)
	}
	return css, nil
}
