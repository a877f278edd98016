package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	resultview "github.com/alnah/go-resultview"
)

// maxStdinBytes bounds a result read from stdin.
const maxStdinBytes = 32 << 20

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() (*resultview.Renderer, error)
	Release(*resultview.Renderer)
	Size() int
}

// Compile-time check that RendererPool implements Pool.
var _ Pool = (*resultview.RendererPool)(nil)

// runRender renders saved results from files, a directory or stdin.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f := &renderFlags{}
	fs := newRenderFlagSet(f, printRenderUsage, env.Stderr)
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
	mergeStyleFlags(f.style, cfg)
	mergeOutputFlags(f.out, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	workers := f.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	timeout, err := parseTimeout(f.timeout)
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = envCfg.Timeout
	}

	userCSS, err := resolveUserCSS(f.style.style)
	if err != nil {
		return err
	}
	job, err := newRenderJob(cfg, f.style, f.out, userCSS)
	if err != nil {
		return err
	}

	positional := fs.Args()
	if len(positional) == 0 {
		return fmt.Errorf("%w: give a result file, a directory, or - for stdin", ErrNoInput)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one input, got %d", ErrUsage, len(positional))
	}

	setMaxProcs(log)
	poolSize := resultview.ResolvePoolSize(workers)
	log.Debug("renderer pool", zap.Int("size", poolSize))
	pool := resultview.NewRendererPool(poolSize, rendererOptions(cfg, timeout, log)...)
	defer func() { _ = pool.Close() }()

	if positional[0] == "-" {
		if f.watch {
			return fmt.Errorf("%w: --watch needs a file or directory", ErrUsage)
		}
		return renderStdin(ctx, pool, job, f.out.output, env)
	}

	output := f.out.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	files, err := discoverFiles(positional[0], output, formatExt(job.format))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !f.watch {
		return fmt.Errorf("%w: no result files found in %s", ErrNoInput, positional[0])
	}

	results := renderBatch(ctx, pool, files, job)
	failed := printOutcomes(results, f.common.quiet, f.common.verbose, env)

	if f.watch {
		w := &watcher{
			root:    positional[0],
			output:  output,
			pool:    pool,
			job:     job,
			env:     env,
			log:     log,
			quiet:   f.common.quiet,
			outputs: make(map[string]bool),
		}
		for _, r := range results {
			w.outputs[filepath.Clean(r.OutputPath)] = true
		}
		return w.run(ctx)
	}

	if failed > 0 {
		return fmt.Errorf("%d render(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// usageError keeps --help distinct from bad flags.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// firstError returns the first failure so the exit code reflects its cause.
func firstError(results []outcome) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// renderStdin renders one result read from stdin. Text formats go to stdout
// unless -o is given; PDF needs -o.
func renderStdin(ctx context.Context, pool Pool, job *renderJob, output string, env *Environment) error {
	content, err := io.ReadAll(io.LimitReader(env.Stdin, maxStdinBytes))
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}
	if job.format == formatPDF && output == "" {
		return fmt.Errorf("%w: PDF output needs --output", ErrUsage)
	}

	result, err := job.parseResult("stdin", content)
	if err != nil {
		return err
	}

	r, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(r)

	data, err := job.render(ctx, r, result)
	if err != nil {
		return err
	}
	if output == "" {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	return writeOutput(output, data)
}

// parseResult turns file content into a search result. JSON files hold a
// saved API response; anything else is the raw result text in the job's mode.
func (j *renderJob) parseResult(name string, content []byte) (resultview.SearchResult, error) {
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return resultview.SearchResult{Mode: j.mode, Result: string(content)}, nil
	}

	var result resultview.SearchResult
	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("%w: %s: %v", ErrReadInput, name, err)
	}
	if result.Mode == "" {
		result.Mode = j.mode
	}
	return result, nil
}

// renderBatch renders files concurrently over the pool.
func renderBatch(ctx context.Context, pool Pool, files []fileToRender, job *renderJob) []outcome {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]outcome, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire()
			if err != nil {
				// Renderer creation failed, mark this worker's jobs as failed
				for idx := range jobs {
					results[idx] = outcome{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = outcome{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], job)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders a single file and returns the outcome.
func renderFile(ctx context.Context, r *resultview.Renderer, f fileToRender, job *renderJob) (res outcome) {
	start := time.Now()
	res = outcome{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { res.Duration = time.Since(start) }()

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		return res
	}

	result, err := job.parseResult(f.InputPath, content)
	if err != nil {
		res.Err = err
		return res
	}

	data, err := job.render(ctx, r, result)
	if err != nil {
		res.Err = err
		return res
	}

	res.Err = writeOutput(f.OutputPath, data)
	return res
}
