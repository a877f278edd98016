package pipeline

// Kind identifies the variant of a Node.
type Kind int

const (
	KindText Kind = iota
	KindStrong
	KindLink
	KindHeader
	KindRule
	KindTable
	KindLineBreak
	KindEmphasis
	KindPreformatted
	KindSection
)

var kindNames = [...]string{
	KindText:         "text",
	KindStrong:       "strong",
	KindLink:         "link",
	KindHeader:       "header",
	KindRule:         "rule",
	KindTable:        "table",
	KindLineBreak:    "linebreak",
	KindEmphasis:     "emphasis",
	KindPreformatted: "preformatted",
	KindSection:      "section",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is one element of a rendered result.
// Implementations are plain values; a tree is never mutated after it is built.
type Node interface {
	Kind() Kind
}

// Text is literal text. Renderers must escape it.
type Text struct {
	Value string
}

func (Text) Kind() Kind { return KindText }

// Strong is bold text (**X**).
type Strong struct {
	Children []Node
}

func (Strong) Kind() Kind { return KindStrong }

// Link is a [TEXT](URL) reference. It opens in a new browsing context.
type Link struct {
	URL      string
	Children []Node
}

func (Link) Kind() Kind { return KindLink }

// Header is a ## or ### line.
type Header struct {
	Level    int
	Children []Node
}

func (Header) Kind() Kind { return KindHeader }

// Rule is a horizontal rule (---).
type Rule struct{}

func (Rule) Kind() Kind { return KindRule }

// LineBreak separates two source lines.
type LineBreak struct{}

func (LineBreak) Kind() Kind { return KindLineBreak }

// Cell is one table cell: the trimmed source text and its inline parse.
type Cell struct {
	Text     string
	Children []Node
}

// Table is a pipe table. Rows[0] is the header row.
// Rows may have different widths.
type Table struct {
	Rows [][]Cell
}

func (Table) Kind() Kind { return KindTable }

// Emphasis is italic text, used for placeholders.
type Emphasis struct {
	Children []Node
}

func (Emphasis) Kind() Kind { return KindEmphasis }

// Preformatted is a monospace block.
type Preformatted struct {
	Class    string
	Children []Node
}

func (Preformatted) Kind() Kind { return KindPreformatted }

// Section groups nodes under a CSS class.
type Section struct {
	Class    string
	Children []Node
}

func (Section) Kind() Kind { return KindSection }
