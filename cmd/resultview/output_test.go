package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/config"
)

func TestResolveFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", formatHTML, false},
		{"html", formatHTML, false},
		{"PDF", formatPDF, false},
		{"Text", formatText, false},
		{"fragment", formatFragment, false},
		{"docx", "", true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.in)
		if tt.wantErr != errors.Is(err, ErrInvalidFormat) {
			t.Errorf("resolveFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		formatHTML:     "html",
		formatFragment: "html",
		formatText:     "txt",
		formatPDF:      "pdf",
	}
	for format, want := range tests {
		if got := formatExt(format); got != want {
			t.Errorf("formatExt(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestNewRenderJob(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Mode = ""
		job, err := newRenderJob(cfg, styleFlags{}, outputFlags{}, "")
		if err != nil {
			t.Fatalf("newRenderJob() error = %v", err)
		}
		if job.mode != resultview.ModeOverview || job.format != formatHTML || job.page != nil {
			t.Errorf("job = %+v", job)
		}
	})

	t.Run("from config and flags", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Mode = "Emails"
		cfg.Render.Title = "Digest"
		cfg.Output.Format = "pdf"
		job, err := newRenderJob(cfg, styleFlags{baseURL: "https://x.org"}, outputFlags{pageSize: "A4", landscape: true}, "p{}")
		if err != nil {
			t.Fatalf("newRenderJob() error = %v", err)
		}
		if job.mode != resultview.ModeEmails || job.format != formatPDF || job.title != "Digest" {
			t.Errorf("job = %+v", job)
		}
		if job.page == nil || job.page.Size != "a4" || !job.page.Landscape {
			t.Errorf("page = %+v", job.page)
		}
		if job.css != "p{}" || job.baseURL != "https://x.org" {
			t.Errorf("css/baseURL = %q/%q", job.css, job.baseURL)
		}
	})

	t.Run("bad margin", func(t *testing.T) {
		t.Parallel()

		_, err := newRenderJob(config.DefaultConfig(), styleFlags{}, outputFlags{margin: 9}, "")
		if !errors.Is(err, resultview.ErrInvalidPage) {
			t.Errorf("error = %v, want ErrInvalidPage", err)
		}
	})
}

func TestPrintOutcomes(t *testing.T) {
	t.Parallel()

	results := []outcome{
		{InputPath: "a.md", OutputPath: "a.html", Duration: 1500 * time.Microsecond},
		{InputPath: "b.json", Err: ErrReadInput},
	}

	tests := []struct {
		name          string
		quiet         bool
		verbose       bool
		wantStdout    []string
		wantNoStdout  bool
		wantFailCount int
	}{
		{"normal", false, false, []string{"Created a.html", "1 succeeded, 1 failed"}, false, 1},
		{"verbose", false, true, []string{"a.md -> a.html (2ms)"}, false, 1},
		{"quiet", true, false, nil, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			failed := printOutcomes(results, tt.quiet, tt.verbose, env.Environment)

			if failed != tt.wantFailCount {
				t.Errorf("failed = %d, want %d", failed, tt.wantFailCount)
			}
			if !strings.Contains(env.stderr.String(), "FAILED b.json") {
				t.Errorf("stderr = %q, failures are always reported", env.stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(env.stdout.String(), want) {
					t.Errorf("stdout = %q, want %q", env.stdout.String(), want)
				}
			}
			if tt.wantNoStdout && env.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", env.stdout.String())
			}
		})
	}
}

func TestPageCSS(t *testing.T) {
	t.Parallel()

	t.Run("embedded default", func(t *testing.T) {
		t.Parallel()

		css, err := pageCSS(config.DefaultConfig(), "")
		if err != nil || css == "" {
			t.Errorf("pageCSS() = %d bytes, %v", len(css), err)
		}
	})

	t.Run("file wins", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "site.css", "body{color:red}")
		css, err := pageCSS(config.DefaultConfig(), path)
		if err != nil || css != "body{color:red}" {
			t.Errorf("pageCSS() = %q, %v", css, err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Style = "neon"
		_, err := pageCSS(cfg, "")
		if !errors.Is(err, resultview.ErrStyleNotFound) {
			t.Errorf("error = %v, want ErrStyleNotFound", err)
		}
	})
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	cfgPath, _ := writeTestConfig(t, "http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := newTestEnv("")
	var logs bytes.Buffer
	env.Stderr = &logs
	code := runMain(ctx, []string{"serve", "-c", cfgPath, "--addr", "127.0.0.1:0", "--log-json"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, logs: %s", code, logs.String())
	}
	if !strings.Contains(logs.String(), `"msg":"starting front-end"`) {
		t.Errorf("logs = %q, want JSON start line", logs.String())
	}
}
