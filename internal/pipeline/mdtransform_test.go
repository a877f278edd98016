package pipeline

import (
	"reflect"
	"strings"
	"testing"
)

func TestTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Node
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "lines separated by breaks",
			input: "one\ntwo",
			want:  []Node{Text{Value: "one"}, LineBreak{}, Text{Value: "two"}},
		},
		{
			name:  "blank line gives two breaks",
			input: "one\n\ntwo",
			want:  []Node{Text{Value: "one"}, LineBreak{}, LineBreak{}, Text{Value: "two"}},
		},
		{
			name:  "trailing newline gives trailing break",
			input: "one\n",
			want:  []Node{Text{Value: "one"}, LineBreak{}},
		},
		{
			name:  "crlf normalized",
			input: "one\r\ntwo\rthree",
			want: []Node{
				Text{Value: "one"}, LineBreak{},
				Text{Value: "two"}, LineBreak{},
				Text{Value: "three"},
			},
		},
		{
			name:  "header rule and text",
			input: "## Results\n---\nbody",
			want: []Node{
				Header{Level: 2, Children: []Node{Text{Value: "Results"}}},
				LineBreak{},
				Rule{},
				LineBreak{},
				Text{Value: "body"},
			},
		},
		{
			name:  "table with separator",
			input: "| A | B |\n|---|---|\n| 1 | 2 |",
			want: []Node{Table{Rows: [][]Cell{
				{{Text: "A", Children: []Node{Text{Value: "A"}}}, {Text: "B", Children: []Node{Text{Value: "B"}}}},
				{{Text: "1", Children: []Node{Text{Value: "1"}}}, {Text: "2", Children: []Node{Text{Value: "2"}}}},
			}}},
		},
		{
			name:  "table flushed at end of input",
			input: "text\n| A |",
			want: []Node{
				Text{Value: "text"},
				LineBreak{},
				Table{Rows: [][]Cell{{{Text: "A", Children: []Node{Text{Value: "A"}}}}}},
			},
		},
		{
			name:  "table cells parsed inline",
			input: "| **Title** | [doi](https://doi.org/1) |",
			want: []Node{Table{Rows: [][]Cell{{
				{Text: "**Title**", Children: []Node{Strong{Children: []Node{Text{Value: "Title"}}}}},
				{Text: "[doi](https://doi.org/1)", Children: []Node{
					Link{URL: "https://doi.org/1", Children: []Node{Text{Value: "doi"}}},
				}},
			}}}},
		},
		{
			name:  "empty cell has no children",
			input: "||",
			want:  []Node{Table{Rows: [][]Cell{{{Text: ""}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Transform(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Transform(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Properties checked on rendered HTML
// ---------------------------------------------------------------------------

func transformHTML(t *testing.T, input string) string {
	t.Helper()

	got, err := RenderHTML(Transform(input))
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	return got
}

func TestTransform_PlainTextIdentity(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain text",
		"line one\nline two\nline three",
		"numbers 1 2 3 and punctuation, dots.",
		"a lone * star and # hash",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			want := strings.ReplaceAll(input, "\n", "<br/>")
			if got := transformHTML(t, input); got != want {
				t.Errorf("Transform(%q) rendered %q, want %q", input, got, want)
			}
		})
	}
}

func TestTransform_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "header wraps exactly the title",
			input:        "intro\n## Title\nmore",
			wantContains: []string{"<h2>Title</h2>"},
		},
		{
			name:         "bold has no residual markers",
			input:        "a **bold** word",
			wantContains: []string{"<strong>bold</strong>"},
			wantExcludes: []string{"**"},
		},
		{
			name:         "link target and label",
			input:        "go [Label](http://x)",
			wantContains: []string{`<a href="http://x" target="_blank" rel="noopener noreferrer">Label</a>`},
		},
		{
			name:  "separator row produces no output row",
			input: "| A | B |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{
				"<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>",
			},
			wantExcludes: []string{"---"},
		},
		{
			name:         "missing separator still a table",
			input:        "| H |\n| v |",
			wantContains: []string{"<table><tr><th>H</th></tr><tr><td>v</td></tr></table>"},
		},
		{
			name:         "end of input flushes table",
			input:        "text\n| A |",
			wantContains: []string{"text<br/><table><tr><th>A</th></tr></table>"},
		},
		{
			name:         "table has no loose newlines",
			input:        "| A |\n| B |\n| C |",
			wantExcludes: []string{"\n", "<br/>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := transformHTML(t, tt.input)

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Transform(%q) rendered %q, want to contain %q", tt.input, got, want)
				}
			}

			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Transform(%q) rendered %q, should not contain %q", tt.input, got, exclude)
				}
			}
		})
	}
}

func TestPlainLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Node
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "markup stays literal",
			input: "## a@b.org\n**c@d.org**\n| e |",
			want: []Node{
				Text{Value: "## a@b.org"}, LineBreak{},
				Text{Value: "**c@d.org**"}, LineBreak{},
				Text{Value: "| e |"},
			},
		},
		{
			name:  "blank lines become bare breaks",
			input: "a\n\nb",
			want:  []Node{Text{Value: "a"}, LineBreak{}, LineBreak{}, Text{Value: "b"}},
		},
		{
			name:  "crlf normalized",
			input: "a\r\nb",
			want:  []Node{Text{Value: "a"}, LineBreak{}, Text{Value: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := PlainLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlainLines(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTransform_ConcurrentUse(t *testing.T) {
	t.Parallel()

	const input = "## H\n| A |\n|---|\n| **1** |\n[x](http://x)"
	want := Transform(input)

	done := make(chan []Node, 8)
	for range 8 {
		go func() { done <- Transform(input) }()
	}
	for range 8 {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Errorf("concurrent Transform() = %#v, want %#v", got, want)
		}
	}
}
