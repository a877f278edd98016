package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Precompiled regex patterns for performance.
var (
	// Bold **text**, shortest run, single line
	boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

	// Link [text](url)
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// ruleMarker is the exact content of a horizontal rule line.
const ruleMarker = "---"

// headerMarkers are checked by exact marker length, so their order is irrelevant.
var headerMarkers = []struct {
	marker string
	level  int
}{
	{"###", 3},
	{"##", 2},
}

// ParseLine converts one source line into nodes.
// Header and rule lines become a single block node; any other line is parsed
// for bold and links. An empty line yields no nodes.
func ParseLine(line string) []Node {
	if level, content, ok := parseHeader(line); ok {
		return []Node{Header{Level: level, Children: ParseInline(content)}}
	}
	if strings.TrimSpace(line) == ruleMarker {
		return []Node{Rule{}}
	}
	return ParseInline(line)
}

// parseHeader recognizes "## title" and "### title" anchored at line start.
// The marker must be followed by whitespace and a non-blank remainder.
func parseHeader(line string) (level int, content string, ok bool) {
	for _, h := range headerMarkers {
		rest, found := strings.CutPrefix(line, h.marker)
		if !found || rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) {
			continue
		}
		content = strings.TrimSpace(rest)
		if content == "" {
			return 0, "", false
		}
		return h.level, content, true
	}
	return 0, "", false
}

// ParseInline converts bold and link syntax into nodes.
// The leftmost match wins; text between matches is kept verbatim. Unterminated
// syntax stays literal. Runs in linear time in the length of text.
func ParseInline(text string) []Node {
	var nodes []Node

	bold := matchCursor{re: boldPattern}
	link := matchCursor{re: linkPattern}

	pos := 0
	for pos < len(text) {
		b := bold.next(text, pos)
		l := link.next(text, pos)

		var loc []int
		var node Node
		switch {
		case b == nil && l == nil:
			return append(nodes, Text{Value: text[pos:]})

		case l == nil || (b != nil && b[0] < l[0]):
			loc = b
			node = Strong{Children: ParseInline(text[b[2]:b[3]])}

		default:
			loc = l
			node = Link{URL: text[l[4]:l[5]], Children: ParseInline(text[l[2]:l[3]])}
		}

		if loc[0] > pos {
			nodes = append(nodes, Text{Value: text[pos:loc[0]]})
		}
		nodes = append(nodes, node)
		pos = loc[1]
	}

	return nodes
}

// matchCursor remembers the next match of one pattern within a line.
// A cached match is reused while it starts at or after the cursor. A pattern
// that found nothing is not searched again: no later suffix can match.
type matchCursor struct {
	re   *regexp.Regexp
	loc  []int // absolute submatch indices
	done bool
}

func (m *matchCursor) next(text string, pos int) []int {
	if m.done {
		return nil
	}
	if m.loc != nil && m.loc[0] >= pos {
		return m.loc
	}

	loc := m.re.FindStringSubmatchIndex(text[pos:])
	if loc == nil {
		m.done, m.loc = true, nil
		return nil
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += pos
		}
	}
	m.loc = loc
	return loc
}
