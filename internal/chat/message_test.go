package chat

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"", "anon"},
		{"Alice", "Alice"},
		{"  ", "  "},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.field); got != tt.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestCompose(t *testing.T) {
	if got := Compose("", "hello"); got != "anon: hello" {
		t.Fatalf("expected anon prefix, got %q", got)
	}
	if got := Compose("Alice", "hi there"); got != "Alice: hi there" {
		t.Fatalf("expected named frame, got %q", got)
	}
}
