package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/config"
)

// Output formats.
const (
	formatHTML     = "html"
	formatFragment = "fragment"
	formatText     = "text"
	formatPDF      = "pdf"
)

// resolveFormat validates a format name. Empty means html.
func resolveFormat(s string) (string, error) {
	if s == "" {
		return formatHTML, nil
	}
	s = strings.ToLower(s)
	for _, f := range config.OutputFormats {
		if s == f {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidFormat, s, strings.Join(config.OutputFormats, ", "))
}

// formatExt returns the file extension for a format.
func formatExt(format string) string {
	switch format {
	case formatPDF:
		return "pdf"
	case formatText:
		return "txt"
	default:
		return "html"
	}
}

// renderJob groups parameters shared by every result of one command.
type renderJob struct {
	mode    resultview.Mode
	title   string
	date    string
	css     string
	baseURL string
	format  string
	page    *resultview.PageSettings
}

// newRenderJob builds a job from the merged config and flags.
func newRenderJob(cfg *config.Config, style styleFlags, out outputFlags, userCSS string) (*renderJob, error) {
	format, err := resolveFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	mode := resultview.ModeOverview
	if cfg.Render.Mode != "" {
		if mode, err = resultview.ParseMode(cfg.Render.Mode); err != nil {
			return nil, err
		}
	}

	page := pageSettings(out)
	if err := page.Validate(); err != nil {
		return nil, err
	}

	return &renderJob{
		mode:    mode,
		title:   cfg.Render.Title,
		date:    cfg.Render.Date,
		css:     userCSS,
		baseURL: style.baseURL,
		format:  format,
		page:    page,
	}, nil
}

// render renders result in the job's format.
func (j *renderJob) render(ctx context.Context, r *resultview.Renderer, result resultview.SearchResult) ([]byte, error) {
	title := j.title
	if title == "" && result.Parameters.Term != "" {
		title = "Results for " + result.Parameters.Term
	}

	res, err := r.Render(ctx, resultview.Input{
		Result:  result,
		Title:   title,
		Date:    j.date,
		CSS:     j.css,
		BaseURL: j.baseURL,
		PDF:     j.format == formatPDF,
		Page:    j.page,
	})
	if err != nil {
		return nil, err
	}

	switch j.format {
	case formatPDF:
		return res.PDF, nil
	case formatFragment:
		return []byte(res.Fragment + "\n"), nil
	case formatText:
		return []byte(resultview.RenderText(res.Nodes) + "\n"), nil
	default:
		return []byte(res.HTML), nil
	}
}

// outcome records one rendered result.
type outcome struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// printOutcomes reports results and returns the failure count.
func printOutcomes(results []outcome, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
