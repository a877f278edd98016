package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/dateutil"
	"github.com/alnah/go-resultview/internal/fileutil"
)

// runSearch queries the API and writes the rendered result.
func runSearch(ctx context.Context, args []string, env *Environment) error {
	f := &searchFlags{}
	fs := newSearchFlagSet(f, printSearchUsage, env.Stderr)
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	log := newLogger(env, f.common)
	if !f.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(f.common, envCfg)
	if err != nil {
		return err
	}
	mergeAPIFlags(f.api, cfg)
	mergeStyleFlags(f.style, cfg)
	mergeOutputFlags(f.out, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := parseTimeout(f.api.timeout); err != nil {
		return err
	}

	userCSS, err := resolveUserCSS(f.style.style)
	if err != nil {
		return err
	}
	job, err := newRenderJob(cfg, f.style, f.out, userCSS)
	if err != nil {
		return err
	}

	email := f.email
	if email == "" {
		email = envCfg.Email
	}
	req := resultview.SearchRequest{
		Term:   strings.Join(fs.Args(), " "),
		Mode:   job.mode,
		Count:  f.count,
		SortBy: f.sortBy,
		Email:  email,
	}.WithDefaults()
	if err := req.Validate(); err != nil {
		return err
	}

	session, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	client, err := newSearchClient(cfg, session, log)
	if err != nil {
		return err
	}

	start := env.Now()
	result, err := client.Search(ctx, req)
	if err != nil {
		return withAPIURL(fmt.Errorf("searching %q: %w", req.Term, err), cfg.API.BaseURL)
	}
	log.Debug("search complete",
		zap.String("mode", string(result.Mode)),
		zap.Int("result_bytes", len(result.Result)),
		zap.Duration("elapsed", env.Now().Sub(start)))

	r, err := resultview.NewRenderer(rendererOptions(cfg, cfg.API.RequestTimeout(), log)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	data, err := job.render(ctx, r, *result)
	if err != nil {
		return err
	}

	if f.out.output == "" && job.format != formatPDF {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}

	path := searchOutputPath(f.out.output, cfg.Output.DefaultDir, req.Term, formatExt(job.format), env.Now())
	if err := writeOutput(path, data); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
	return nil
}

// searchOutputPath picks where a search result is written. An output that
// is an existing directory, or ends with a separator, receives a generated
// name built from the term and a timestamp.
func searchOutputPath(output, defaultDir, term, ext string, now time.Time) string {
	name := fileutil.SanitizeFilename(term) + "-" + dateutil.Stamp(now)

	if output == "" {
		return fileutil.OutputPath(defaultDir, name, ext)
	}
	if strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/") {
		return fileutil.OutputPath(output, name, ext)
	}
	if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		return fileutil.OutputPath(output, name, ext)
	}
	return output
}
