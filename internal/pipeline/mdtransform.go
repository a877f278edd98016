package pipeline

import (
	"regexp"
	"strings"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Transform converts markdown-subset text into a node sequence.
//
// Tables are extracted on the raw line structure first. Each literal line is
// then parsed on its own (headers, rules, bold, links), and a LineBreak is
// placed between consecutive segments, tables included. Table cells are parsed
// for bold and links only.
//
// Transform is pure and safe for concurrent use. It must be applied to the
// untransformed source exactly once.
func Transform(text string) []Node {
	text = normalizeLineEndings(text)
	if text == "" {
		return nil
	}

	segments := ExtractTables(text)
	nodes := make([]Node, 0, len(segments)*2)

	for i, seg := range segments {
		if i > 0 {
			nodes = append(nodes, LineBreak{})
		}
		if seg.IsTable() {
			nodes = append(nodes, buildTable(seg.Rows))
			continue
		}
		nodes = append(nodes, ParseLine(seg.Line)...)
	}

	return nodes
}

// PlainLines converts text into Text nodes separated by LineBreak, with no
// other interpretation. Markup characters stay literal.
func PlainLines(text string) []Node {
	text = normalizeLineEndings(text)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	nodes := make([]Node, 0, len(lines)*2)
	for i, line := range lines {
		if i > 0 {
			nodes = append(nodes, LineBreak{})
		}
		if line != "" {
			nodes = append(nodes, Text{Value: line})
		}
	}
	return nodes
}

// buildTable converts extracted cell text into a Table node.
func buildTable(rows [][]string) Table {
	table := Table{Rows: make([][]Cell, len(rows))}
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, text := range row {
			cells[j] = Cell{Text: text, Children: ParseInline(text)}
		}
		table.Rows[i] = cells
	}
	return table
}
