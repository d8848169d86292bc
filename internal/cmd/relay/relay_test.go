package relay

import (
	"flag"
	"io"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.Title != "GC" {
		t.Fatalf("expected default title, got %q", cfg.Title)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("CHAT_RELAY_ADDR", "env-addr")
	t.Setenv("CHAT_RELAY_TITLE", "env-title")

	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-addr", "flag-addr"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "flag-addr" {
		t.Fatalf("expected flag addr, got %q", cfg.Addr)
	}
	if cfg.Title != "env-title" {
		t.Fatalf("expected env title, got %q", cfg.Title)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-nope"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
