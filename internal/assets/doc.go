// Package assets provides CSS styles and the HTML page template for rendered results.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in styles (default, compact), the page
// template and the search form template embedded at compile time.
//
// FilesystemLoader allows users to provide custom assets from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the renderer. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is not
// found. This enables overriding one style while keeping the page template.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css     # CSS styles (e.g., compact.css)
//	└── templates/
//	    └── {name}.html    # Page templates (e.g., page.html)
//
// # Names and slots
//
// Style and template names are plain slugs (letters, digits, '-' and '_'),
// since they arrive from --style and config files. Overrides of the page and
// search templates must still render their result slots ({{.Body}}, or
// {{.Result}} and {{.Error}}); otherwise loading fails with
// ErrTemplateIncomplete instead of producing pages without results.
// FilesystemLoader resolves symlinks and keeps paths inside basePath.
package assets
