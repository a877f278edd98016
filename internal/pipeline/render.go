package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHTMLRender indicates the node tree could not be serialized.
var ErrHTMLRender = errors.New("HTML rendering failed")

// linkRel is set on every generated link.
const linkRel = "noopener noreferrer"

// RenderHTML serializes nodes as an HTML fragment.
// Nodes are first converted into a golang.org/x/net/html DOM, so all text and
// attribute values are escaped by html.Render. Links with a scheme other than
// http, https or mailto are rendered as their label only.
func RenderHTML(nodes []Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		dom := toDOM(n)
		if dom == nil {
			continue
		}
		if err := html.Render(&buf, dom); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLRender, err)
		}
	}
	return buf.String(), nil
}

// toDOM converts a single node into an html.Node subtree.
func toDOM(n Node) *html.Node {
	switch v := n.(type) {
	case Text:
		return &html.Node{Type: html.TextNode, Data: v.Value}
	case Strong:
		return withChildren(element(atom.Strong), v.Children)
	case Emphasis:
		return withChildren(element(atom.Em), v.Children)
	case Link:
		if !isSafeURL(v.URL) {
			return withChildren(element(atom.Span), v.Children)
		}
		a := element(atom.A,
			html.Attribute{Key: "href", Val: strings.TrimSpace(v.URL)},
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: linkRel},
		)
		return withChildren(a, v.Children)
	case Header:
		return withChildren(headingElement(v.Level), v.Children)
	case Rule:
		return element(atom.Hr)
	case LineBreak:
		return element(atom.Br)
	case Table:
		return tableElement(v)
	case Preformatted:
		return withChildren(element(atom.Pre, classAttr(v.Class)...), v.Children)
	case Section:
		return withChildren(element(atom.Div, classAttr(v.Class)...), v.Children)
	default:
		return nil
	}
}

// element creates an empty element node.
func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// withChildren appends the DOM form of each child to parent.
func withChildren(parent *html.Node, children []Node) *html.Node {
	for _, c := range children {
		if dom := toDOM(c); dom != nil {
			parent.AppendChild(dom)
		}
	}
	return parent
}

// classAttr returns a class attribute, or none for an empty class.
func classAttr(class string) []html.Attribute {
	if class == "" {
		return nil
	}
	return []html.Attribute{{Key: "class", Val: class}}
}

// headingElement maps a header level to h1..h6, clamping out-of-range levels.
func headingElement(level int) *html.Node {
	level = max(1, min(level, 6))
	tag := "h" + strconv.Itoa(level)
	return element(atom.Lookup([]byte(tag)))
}

// tableElement renders row 0 with <th> cells and all others with <td>.
// No tbody is emitted and row widths are not reconciled.
func tableElement(t Table) *html.Node {
	table := element(atom.Table)
	for i, row := range t.Rows {
		cellAtom := atom.Td
		if i == 0 {
			cellAtom = atom.Th
		}
		tr := element(atom.Tr)
		for _, cell := range row {
			tr.AppendChild(withChildren(element(cellAtom), cell.Children))
		}
		table.AppendChild(tr)
	}
	return table
}

// isSafeURL accepts relative references and http, https and mailto URLs.
func isSafeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	}
	return false
}

// RenderText serializes nodes as plain text for terminals.
// Line breaks become newlines, rules become "---" and table cells are joined
// with " | ".
func RenderText(nodes []Node) string {
	var sb strings.Builder
	writeText(&sb, nodes)
	return sb.String()
}

func writeText(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			sb.WriteString(v.Value)
		case Strong:
			writeText(sb, v.Children)
		case Emphasis:
			writeText(sb, v.Children)
		case Link:
			writeText(sb, v.Children)
			if isSafeURL(v.URL) {
				sb.WriteString(" <" + strings.TrimSpace(v.URL) + ">")
			}
		case Header:
			sb.WriteString(strings.Repeat("#", max(1, min(v.Level, 6))) + " ")
			writeText(sb, v.Children)
		case Rule:
			sb.WriteString(ruleMarker)
		case LineBreak:
			sb.WriteByte('\n')
		case Table:
			for i, row := range v.Rows {
				if i > 0 {
					sb.WriteByte('\n')
				}
				for j, cell := range row {
					if j > 0 {
						sb.WriteString(" | ")
					}
					writeText(sb, cell.Children)
				}
			}
		case Preformatted:
			writeText(sb, v.Children)
		case Section:
			writeText(sb, v.Children)
		}
	}
}
