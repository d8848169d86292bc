package chat

import (
	"strings"
	"testing"
)

func TestLogKeepsArrivalOrder(t *testing.T) {
	var l Log
	payloads := []string{"Bob: yo", "<b>hi</b>", "Bob: yo", ""}
	for _, p := range payloads {
		l.Append(p)
	}

	lines := l.Lines()
	if len(lines) != len(payloads) {
		t.Fatalf("expected %d lines, got %d", len(payloads), len(lines))
	}
	for i := range payloads {
		if lines[i] != payloads[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], payloads[i])
		}
	}
}

func TestLogLinesIsCopy(t *testing.T) {
	var l Log
	l.Append("a")
	lines := l.Lines()
	lines[0] = "changed"
	if got := l.Lines()[0]; got != "a" {
		t.Fatalf("expected stored line to be untouched, got %q", got)
	}
}

func TestLogRenderIsLiteral(t *testing.T) {
	var l Log
	l.Append("<b>hi</b>")
	l.Append("two\nlines")
	l.Append("\x1b[31mred")

	got := l.Render()
	want := "<b>hi</b>\ntwo\\nlines\n\\x1b[31mred"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if n := strings.Count(got, "\n") + 1; n != l.Len() {
		t.Fatalf("expected one rendered line per payload, got %d for %d", n, l.Len())
	}
}

func TestLiteralKeepsPrintable(t *testing.T) {
	for _, s := range []string{"plain", "tab\tstop", "héllo 世界", ""} {
		if got := Literal(s); got != s {
			t.Fatalf("Literal(%q) = %q", s, got)
		}
	}
}
