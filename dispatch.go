package resultview

import (
	"github.com/alnah/go-resultview/internal/pipeline"
)

// Placeholder texts for empty results.
const (
	NoEmailsText   = "No author emails found for this search."
	NoArticlesText = "No articles found for this search."
	EmailsLabel    = "Author Emails Found:"
)

// Section classes on the dispatched output.
const (
	ClassEmailResults    = "email-results"
	ClassOverviewResults = "overview-results"
	ClassNoResults       = "no-results"
	ClassEmailList       = "emails"
)

// Parse converts markdown-subset text to a node tree.
// It is the one converter shared by the library, the CLI and the server.
// Safe for concurrent use.
func Parse(markdown string) []Node {
	return pipeline.Transform(markdown)
}

// Dispatch selects the presentation for a result by its mode.
//
// Emails results only get newline to line-break conversion inside a
// preformatted block; no markup rule runs on them. Any other mode goes
// through Parse. The mode is matched like ParseMode, so "Emails" is still
// an emails result. Empty or whitespace-only results give a placeholder.
func Dispatch(result SearchResult) []Node {
	if mode, err := ParseMode(string(result.Mode)); err == nil && mode == ModeEmails {
		if result.IsEmpty() {
			return placeholder(NoEmailsText)
		}
		return []Node{Section{Class: ClassEmailResults, Children: []Node{
			Strong{Children: []Node{Text{Value: EmailsLabel}}},
			LineBreak{},
			Preformatted{Class: ClassEmailList, Children: pipeline.PlainLines(result.Result)},
		}}}
	}

	if result.IsEmpty() {
		return placeholder(NoArticlesText)
	}
	return []Node{Section{Class: ClassOverviewResults, Children: Parse(result.Result)}}
}

func placeholder(text string) []Node {
	return []Node{Section{Class: ClassNoResults, Children: []Node{
		Emphasis{Children: []Node{Text{Value: text}}},
	}}}
}

// RenderHTML renders nodes to an escaped HTML fragment.
func RenderHTML(nodes []Node) (string, error) {
	return pipeline.RenderHTML(nodes)
}

// RenderText renders nodes as plain text for terminals.
func RenderText(nodes []Node) string {
	return pipeline.RenderText(nodes)
}
