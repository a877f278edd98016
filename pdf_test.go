package resultview

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	result      []byte
	err         error
	calledWith  string
	fileContent string
	closed      bool
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.calledWith = filePath
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	m.fileContent = string(content)
	return m.result, m.err
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		mock    *mockRenderer
		wantErr bool
	}{
		{
			name: "successful render returns PDF bytes",
			html: "<html><body>results</body></html>",
			mock: &mockRenderer{result: []byte("%PDF-1.4 fake")},
		},
		{
			name:    "renderer error propagates",
			html:    "<html></html>",
			mock:    &mockRenderer{err: errors.New("browser crashed")},
			wantErr: true,
		},
		{
			name: "empty HTML is valid",
			html: "",
			mock: &mockRenderer{result: []byte("%PDF-1.4")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &rodConverter{renderer: tt.mock}
			got, err := c.ToPDF(context.Background(), tt.html, nil)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ToPDF() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != string(tt.mock.result) {
				t.Errorf("ToPDF() = %q, want %q", got, tt.mock.result)
			}
			if tt.mock.fileContent != tt.html {
				t.Errorf("temp file content = %q, want %q", tt.mock.fileContent, tt.html)
			}
			if !strings.HasSuffix(tt.mock.calledWith, ".html") {
				t.Errorf("temp file %q should have .html extension", tt.mock.calledWith)
			}
			if _, err := os.Stat(tt.mock.calledWith); !os.IsNotExist(err) {
				t.Errorf("temp file %q should be removed, stat error = %v", tt.mock.calledWith, err)
			}
		})
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	m := &mockRenderer{}
	c := &rodConverter{renderer: m}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !m.closed {
		t.Error("Close() should close the renderer")
	}

	if err := (&rodConverter{}).Close(); err != nil {
		t.Errorf("Close() on empty converter error = %v", err)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(defaultTimeout)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRodRenderer_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRodRenderer(defaultTimeout)
	if _, err := r.RenderFromFile(ctx, "/tmp/x.html", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFromFile() error = %v, want context.Canceled", err)
	}
}

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		opts          *pdfOptions
		width, height float64
		margin        float64
		bottom        float64
	}{
		{"nil options", nil, 8.5, 11, 0.5, 0.75},
		{"letter default", &pdfOptions{Page: &PageSettings{}}, 8.5, 11, 0.5, 0.75},
		{"a4 portrait", &pdfOptions{Page: &PageSettings{Size: "A4"}}, 8.27, 11.69, 0.5, 0.75},
		{"legal landscape", &pdfOptions{Page: &PageSettings{Size: PageSizeLegal, Landscape: true}}, 14, 8.5, 0.5, 0.75},
		{"wide margin", &pdfOptions{Page: &PageSettings{Margin: 1.25}}, 8.5, 11, 1.25, 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPDFOptions(tt.opts)

			if *got.PaperWidth != tt.width || *got.PaperHeight != tt.height {
				t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, tt.width, tt.height)
			}
			if *got.MarginTop != tt.margin || *got.MarginLeft != tt.margin || *got.MarginRight != tt.margin {
				t.Errorf("margins = %v/%v/%v, want %v", *got.MarginTop, *got.MarginLeft, *got.MarginRight, tt.margin)
			}
			if *got.MarginBottom != tt.bottom {
				t.Errorf("bottom margin = %v, want %v", *got.MarginBottom, tt.bottom)
			}
			if !got.PrintBackground || !got.DisplayHeaderFooter {
				t.Error("background and footer should be enabled")
			}
		})
	}
}

func TestBuildFooterTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		text         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "page number only",
			text:         "",
			wantContains: []string{`<span class="pageNumber"></span>/<span class="totalPages"></span>`},
			wantExcludes: []string{" - "},
		},
		{
			name:         "text before page number",
			text:         "Digest - 2026-03-14",
			wantContains: []string{"Digest - 2026-03-14 - <span class=\"pageNumber\">"},
		},
		{
			name:         "text escaped",
			text:         "<b>&</b>",
			wantContains: []string{"&lt;b&gt;&amp;&lt;/b&gt;"},
			wantExcludes: []string{"<b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildFooterTemplate(tt.text)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("footer %q missing %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("footer %q should not contain %q", got, exclude)
				}
			}
		})
	}
}
