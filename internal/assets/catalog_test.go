package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestCheckName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		input   string
		wantErr bool
	}{
		{"built-in style", KindStyle, "compact", false},
		{"hyphenated style", KindStyle, "print-wide", false},
		{"underscored template", KindTemplate, "weekly_digest", false},
		{"mixed case", KindStyle, "Journal2", false},
		{"empty", KindStyle, "", true},
		{"leading hyphen looks like a flag", KindStyle, "-compact", true},
		{"extension", KindStyle, "compact.css", true},
		{"hidden file", KindTemplate, ".page", true},
		{"slash", KindTemplate, "templates/page", true},
		{"backslash", KindStyle, "..\\secret", true},
		{"traversal", KindStyle, "../secret", true},
		{"space", KindStyle, "my style", true},
		{"too long", KindStyle, strings.Repeat("a", maxNameLength+1), true},
		{"at length limit", KindStyle, strings.Repeat("a", maxNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkName(tt.kind, tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("checkName(%v, %q) unexpected error: %v", tt.kind, tt.input, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidAssetName) {
				t.Fatalf("checkName(%v, %q) error = %v, want ErrInvalidAssetName", tt.kind, tt.input, err)
			}
			if !strings.Contains(err.Error(), tt.kind.String()) {
				t.Errorf("error %q should name the %s kind", err, tt.kind)
			}
		})
	}
}

func TestCheckTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		content  string
		missing  []string
	}{
		{"page with body", DefaultTemplateName, "<main>{{.Body}}</main>", nil},
		{"page without body", DefaultTemplateName, "<main>{{.Title}}</main>", []string{"{{.Body}}"}},
		{"search with both slots", SearchTemplateName, "{{.Error}}{{.Result}}", nil},
		{"search without slots", SearchTemplateName, "<form></form>", []string{"{{.Result}}", "{{.Error}}"}},
		{"unknown template unchecked", "digest", "<p></p>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkTemplate(tt.template, tt.content)
			if len(tt.missing) == 0 {
				if err != nil {
					t.Errorf("checkTemplate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrTemplateIncomplete) {
				t.Fatalf("checkTemplate() error = %v, want ErrTemplateIncomplete", err)
			}
			for _, slot := range tt.missing {
				if !strings.Contains(err.Error(), slot) {
					t.Errorf("error %q should list %s", err, slot)
				}
			}
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	if got, want := Names(KindStyle), []string{"compact", "default"}; !slices.Equal(got, want) {
		t.Errorf("Names(KindStyle) = %v, want %v", got, want)
	}
	if got, want := Names(KindTemplate), []string{"page", "search"}; !slices.Equal(got, want) {
		t.Errorf("Names(KindTemplate) = %v, want %v", got, want)
	}
	if got := Names(Kind(9)); len(got) != 0 {
		t.Errorf("Names(Kind(9)) = %v, want none", got)
	}
}

func TestEmbeddedTemplatesKeepSlots(t *testing.T) {
	t.Parallel()

	for _, name := range Names(KindTemplate) {
		content, err := LoadTemplate(name)
		if err != nil {
			t.Fatalf("LoadTemplate(%q) error = %v", name, err)
		}
		if err := checkTemplate(name, content); err != nil {
			t.Errorf("built-in template %q: %v", name, err)
		}
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	for kind, want := range map[Kind]string{KindStyle: "style", KindTemplate: "template", Kind(9): "unknown"} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
