// Package pipeline implements the result rendering pipeline.
//
// This package handles the conversion stages between raw search output and a
// rendered page:
//   - Line ending normalization
//   - Table block extraction (pipe tables, separator rows skipped)
//   - Inline transformation (headers, bold, links, rules)
//   - Line break insertion between segments
//   - Safe HTML rendering of the resulting node tree via golang.org/x/net/html
//   - Optional library conversion via Goldmark
//   - Standalone page assembly (title, date, CSS)
//
// The hand-rolled converter (Transform) is the canonical one. It produces a
// typed node tree; markup is only produced by walking that tree, so text from
// the remote API is never injected as raw HTML.
//
// PDF export is handled separately by the root resultview package using
// headless Chrome (go-rod).
package pipeline
