package resultview

import (
	"fmt"
	"strings"

	"github.com/alnah/go-resultview/internal/pipeline"
)

// Mode selects how a search result is presented.
type Mode string

const (
	// ModeOverview renders the result as markdown-subset text.
	ModeOverview Mode = "overview"
	// ModeEmails renders the result as plain text lines, never as markup.
	ModeEmails Mode = "emails"
)

// Modes lists the accepted modes in display order.
var Modes = []Mode{ModeOverview, ModeEmails}

// ParseMode converts s to a Mode. Matching is case-insensitive and ignores
// surrounding whitespace.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for _, m := range Modes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of: overview, emails)", ErrInvalidMode, s)
}

// SortBy values accepted by the search API.
const (
	SortRelevance = "relevance"
	SortPubDate   = "pub_date"
	SortAuthor    = "Author"
	SortJournal   = "JournalName"
)

// SortOptions lists the accepted sort keys in display order.
var SortOptions = []string{SortRelevance, SortPubDate, SortAuthor, SortJournal}

// Search count bounds and defaults.
const (
	MinCount     = 1
	MaxCount     = 100
	DefaultCount = 10
)

// SearchRequest is the body sent to the search API.
type SearchRequest struct {
	Term   string `json:"searchterm" yaml:"searchterm"`
	Mode   Mode   `json:"mode" yaml:"mode"`
	Count  int    `json:"searchnumber" yaml:"searchnumber"`
	SortBy string `json:"sortby" yaml:"sortby"`
	Email  string `json:"email" yaml:"email"`
}

// WithDefaults returns a copy with empty fields set to the API defaults.
func (r SearchRequest) WithDefaults() SearchRequest {
	if r.Mode == "" {
		r.Mode = ModeOverview
	}
	if r.Count == 0 {
		r.Count = DefaultCount
	}
	if r.SortBy == "" {
		r.SortBy = SortRelevance
	}
	return r
}

// Validate applies the same rules as the search API.
// Call WithDefaults first to accept omitted fields.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Term) == "" {
		return ErrEmptyTerm
	}
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return err
	}
	if !isSortOption(r.SortBy) {
		return fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidSortBy, r.SortBy, strings.Join(SortOptions, ", "))
	}
	if r.Count < MinCount || r.Count > MaxCount {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, r.Count)
	}
	return nil
}

// isSortOption matches exactly: the API keys are case-sensitive.
func isSortOption(s string) bool {
	for _, o := range SortOptions {
		if s == o {
			return true
		}
	}
	return false
}

// SearchResult is a successful search response.
// It is consumed once by the rendering path and never modified.
type SearchResult struct {
	Mode       Mode          `json:"mode"`
	Result     string        `json:"result"`
	Parameters SearchRequest `json:"parameters"`
}

// IsEmpty reports whether the result text is empty or whitespace-only.
func (r SearchResult) IsEmpty() bool {
	return strings.TrimSpace(r.Result) == ""
}

// Node types re-exported from the rendering pipeline.
type (
	Node         = pipeline.Node
	Kind         = pipeline.Kind
	Text         = pipeline.Text
	Strong       = pipeline.Strong
	Emphasis     = pipeline.Emphasis
	Link         = pipeline.Link
	Header       = pipeline.Header
	Rule         = pipeline.Rule
	LineBreak    = pipeline.LineBreak
	Table        = pipeline.Table
	Cell         = pipeline.Cell
	Preformatted = pipeline.Preformatted
	Section      = pipeline.Section
)

// Engine selects the converter used for overview results.
type Engine string

const (
	// EngineSubset is the hand-rolled markdown-subset converter (default).
	EngineSubset Engine = "subset"
	// EngineGoldmark uses Goldmark with GFM. It does not reproduce the
	// subset's table and line-break rules.
	EngineGoldmark Engine = "goldmark"
)

// ParseEngine converts s to an Engine. Empty selects EngineSubset.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(s) {
	case "", string(EngineSubset):
		return EngineSubset, nil
	case string(EngineGoldmark):
		return EngineGoldmark, nil
	}
	return "", fmt.Errorf("%w: %q (must be subset or goldmark)", ErrInvalidEngine, s)
}

// Paper sizes.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// PageSettings configures PDF export.
type PageSettings struct {
	Size      string  // "letter" (default), "a4", "legal"
	Landscape bool    // Wide result tables usually read better in landscape
	Margin    float64 // inches, 0 = default 0.5
}

// MaxMargin is the largest accepted PDF margin in inches.
const MaxMargin = 3.0

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Size) {
	case "", PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: size %q (must be letter, a4, or legal)", ErrInvalidPage, p.Size)
	}
	if p.Margin < 0 || p.Margin > MaxMargin {
		return fmt.Errorf("%w: margin %.2f (must be between 0 and %.0f)", ErrInvalidPage, p.Margin, MaxMargin)
	}
	return nil
}

// Input contains rendering parameters for one search result.
type Input struct {
	Result  SearchResult  // Result to render (required)
	Title   string        // Page title (optional)
	Date    string        // "auto", "auto:FORMAT" or literal (optional)
	CSS     string        // Extra CSS appended after the style (optional)
	BaseURL string        // Resolves relative result links in exported pages (optional)
	PDF     bool          // Also export the page to PDF
	Page    *PageSettings // PDF page settings (optional, nil = defaults)
}

// RenderResult holds every stage of a rendered result.
type RenderResult struct {
	Nodes    []Node // Dispatched node tree
	Fragment string // Result HTML fragment, suitable for embedding
	HTML     string // Standalone HTML page
	PDF      []byte // PDF export, nil unless Input.PDF is set
}
