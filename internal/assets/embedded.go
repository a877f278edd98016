package assets

import (
	"embed"
	"fmt"
	"path"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader serves the built-in result styles and page templates.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle returns a built-in style such as "default" or "compact".
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(KindStyle, name)
}

// LoadTemplate returns the built-in "page" or "search" template.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(KindTemplate, name)
}

func (e *EmbeddedLoader) load(kind Kind, name string) (string, error) {
	if err := checkName(kind, name); err != nil {
		return "", err
	}

	spec := kind.spec()
	content, err := embedded.ReadFile(path.Join(spec.dir, name+spec.ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", spec.notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
