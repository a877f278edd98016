package pipeline

import (
	"regexp"
	"strings"
)

// separatorRow matches a header/body separator such as |---|:--|.
// Colons are not accepted: alignment rows are treated as data.
var separatorRow = regexp.MustCompile(`^\|[\s\-\|]+\|$`)

// Segment is one unit of extracted output, in source order.
// A segment is either a literal line or a table run.
type Segment struct {
	Line string     // untouched source line, when Rows is nil
	Rows [][]string // table cells, Rows[0] is the header
}

// IsTable reports whether the segment holds a table run.
func (s Segment) IsTable() bool {
	return s.Rows != nil
}

// ExtractTables splits text into literal lines and table runs in one forward pass.
// A table run is a maximal sequence of lines that start and end with '|' once
// trimmed. Separator rows are skipped without ending the run. A run is flushed
// on the first non-table line or at end of input; runs with no rows produce no
// segment. Non-table lines are returned untouched.
func ExtractTables(text string) []Segment {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	segments := make([]Segment, 0, len(lines))

	var rows [][]string
	inTable := false

	flush := func() {
		if inTable && len(rows) > 0 {
			segments = append(segments, Segment{Rows: rows})
		}
		inTable = false
		rows = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !isTableRow(trimmed) {
			flush()
			segments = append(segments, Segment{Line: line})
			continue
		}

		if !inTable {
			inTable = true
			rows = make([][]string, 0, 4)
		}

		if separatorRow.MatchString(trimmed) {
			continue
		}

		rows = append(rows, splitCells(trimmed))
	}

	flush()
	return segments
}

// isTableRow reports whether a trimmed line is pipe-delimited.
func isTableRow(trimmed string) bool {
	return strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|")
}

// splitCells splits a trimmed table row on '|', drops the pieces before the
// leading pipe and after the trailing pipe, and trims each cell.
func splitCells(row string) []string {
	parts := strings.Split(row, "|")
	if len(parts) < 2 {
		return []string{}
	}
	parts = parts[1 : len(parts)-1]

	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
