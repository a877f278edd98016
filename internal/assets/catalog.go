package assets

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

// Kind is a category of asset: a CSS style or an HTML page template.
type Kind int

const (
	KindStyle Kind = iota
	KindTemplate
)

// Built-in asset names.
const (
	// DefaultStyleName styles rendered results when no style is chosen.
	DefaultStyleName = "default"

	// DefaultTemplateName wraps a rendered result into a standalone page.
	DefaultTemplateName = "page"

	// SearchTemplateName is the search form page served by the HTTP front-end.
	SearchTemplateName = "search"
)

// AssetLoader loads styles and page templates by name.
type AssetLoader interface {
	// LoadStyle returns ErrStyleNotFound for unknown names.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns ErrTemplateNotFound for unknown names and
	// ErrTemplateIncomplete when a result template lacks its slots.
	LoadTemplate(name string) (string, error)
}

// kindSpec locates one kind of asset on disk and in the embedded tree.
type kindSpec struct {
	label    string
	dir      string
	ext      string
	notFound error
}

var kindSpecs = map[Kind]kindSpec{
	KindStyle:    {label: "style", dir: "styles", ext: ".css", notFound: ErrStyleNotFound},
	KindTemplate: {label: "template", dir: "templates", ext: ".html", notFound: ErrTemplateNotFound},
}

func (k Kind) spec() kindSpec {
	return kindSpecs[k]
}

func (k Kind) String() string {
	if s, ok := kindSpecs[k]; ok {
		return s.label
	}
	return "unknown"
}

// maxNameLength bounds style and template names taken from flags and config.
const maxNameLength = 64

// Names double as --style values and file stems, so only plain slugs pass.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// checkName rejects names that could escape the asset directory or change
// the file extension.
func checkName(kind Kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty %s name", ErrInvalidAssetName, kind)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: %s name longer than %d characters", ErrInvalidAssetName, kind, maxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%w: %s %q", ErrInvalidAssetName, kind, name)
	}
	return nil
}

// templateSlots lists the fields a result template must render. A custom
// override missing one would silently drop the search result or its error.
var templateSlots = map[string][]string{
	DefaultTemplateName: {"{{.Body}}"},
	SearchTemplateName:  {"{{.Result}}", "{{.Error}}"},
}

// checkTemplate verifies that a known template still renders its slots.
// Templates with other names are not checked.
func checkTemplate(name, content string) error {
	var missing []string
	for _, slot := range templateSlots[name] {
		if !strings.Contains(content, slot) {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %q lacks %s", ErrTemplateIncomplete, name, strings.Join(missing, ", "))
	}
	return nil
}

// Names lists the embedded asset names of a kind in sorted order.
func Names(kind Kind) []string {
	spec := kind.spec()
	entries, err := fs.ReadDir(embedded, spec.dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), spec.ext); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
