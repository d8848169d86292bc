package chat

import (
	"strconv"
	"strings"
	"unicode"
)

// Log is the ordered, append-only list of inbound payloads.
//
// It is owned by the UI event loop and is not safe for concurrent use.
type Log struct {
	lines []string
}

// Append adds payload as a new line at the end of the log.
func (l *Log) Append(payload string) {
	l.lines = append(l.lines, payload)
}

// Len returns the number of lines.
func (l *Log) Len() int {
	return len(l.lines)
}

// Lines returns a copy of the stored payloads in arrival order.
func (l *Log) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Render joins the log into one display line per payload. Control
// characters are shown escaped so a payload cannot steer the terminal or
// span more than one line.
func (l *Log) Render() string {
	var b strings.Builder
	for i, line := range l.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Literal(line))
	}
	return b.String()
}

// Literal returns s with control characters replaced by their escaped
// form. Tabs are kept.
func Literal(s string) string {
	if strings.IndexFunc(s, isEscaped) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if !isEscaped(r) {
			b.WriteRune(r)
			continue
		}
		q := strconv.QuoteRune(r)
		b.WriteString(q[1 : len(q)-1])
	}
	return b.String()
}

func isEscaped(r rune) bool {
	return r != '\t' && unicode.IsControl(r)
}
