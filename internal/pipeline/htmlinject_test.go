package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-resultview/internal/assets"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no escape needed",
			input:    "body { color: red; }",
			expected: "body { color: red; }",
		},
		{
			name:     "escapes style close",
			input:    "</style>",
			expected: `<\/style>`,
		},
		{
			name:     "multiple occurrences",
			input:    "</a></b>",
			expected: `<\/a><\/b>`,
		},
		{
			name:     "case variation STYLE",
			input:    "</STYLE>",
			expected: `<\/STYLE>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeCSS(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func newPageAssembly(t *testing.T) *PageAssembly {
	t.Helper()

	tmpl, err := assets.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	pa, err := NewPageAssembly(tmpl)
	if err != nil {
		t.Fatalf("NewPageAssembly() error = %v", err)
	}
	return pa
}

func TestPageAssembly_BuildPage(t *testing.T) {
	t.Parallel()

	pa := newPageAssembly(t)

	tests := []struct {
		name         string
		data         *PageData
		wantContains []string
		wantExcludes []string
	}{
		{
			name: "full page",
			data: &PageData{
				Title: "CRISPR overview",
				Date:  "2026-10-19",
				CSS:   "table { width: 100%; }",
				Body:  "<h2>Results</h2>",
			},
			wantContains: []string{
				"<!DOCTYPE html>",
				"<title>CRISPR overview</title>",
				"<h1>CRISPR overview</h1>",
				`<div class="page-date">2026-10-19</div>`,
				"<style>table { width: 100%; }</style>",
				`<main class="results"><h2>Results</h2></main>`,
			},
		},
		{
			name:         "nil data renders empty page",
			data:         nil,
			wantContains: []string{"<title>Search results</title>", `<main class="results"></main>`},
			wantExcludes: []string{"<style>", "page-header"},
		},
		{
			name:         "title escaped",
			data:         &PageData{Title: "<script>x</script>"},
			wantContains: []string{"&lt;script&gt;x&lt;/script&gt;"},
			wantExcludes: []string{"<script>x</script>"},
		},
		{
			name:         "css cannot close style block",
			data:         &PageData{CSS: "body{}</style><script>alert(1)</script>"},
			wantExcludes: []string{"</style><script>"},
		},
		{
			name:         "date only header",
			data:         &PageData{Date: "19/10/2026"},
			wantContains: []string{`<header class="page-header">`, "19/10/2026"},
			wantExcludes: []string{"<h1>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := pa.BuildPage(context.Background(), tt.data)
			if err != nil {
				t.Fatalf("BuildPage() error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("BuildPage() missing %q in:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("BuildPage() should not contain %q in:\n%s", exclude, got)
				}
			}
		})
	}
}

func TestPageAssembly_ContextCancellation(t *testing.T) {
	t.Parallel()

	pa := newPageAssembly(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pa.BuildPage(ctx, &PageData{Body: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("BuildPage() error = %v, want context.Canceled", err)
	}
}

func TestNewPageAssembly_InvalidTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewPageAssembly("{{.Body")
	if err == nil {
		t.Error("NewPageAssembly() expected parse error")
	}
}

func TestPageAssembly_ExecutionError(t *testing.T) {
	t.Parallel()

	pa, err := NewPageAssembly("{{.Missing}}")
	if err != nil {
		t.Fatalf("NewPageAssembly() error = %v", err)
	}

	_, err = pa.BuildPage(context.Background(), &PageData{})
	if !errors.Is(err, ErrPageRender) {
		t.Errorf("BuildPage() error = %v, want ErrPageRender", err)
	}
}
