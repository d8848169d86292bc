package config

import (
	"flag"
	"io"
	"testing"
)

type sample struct {
	Addr string `env:"CONFIG_TEST_ADDR" envDefault:":9000"`
	Port int    `env:"CONFIG_TEST_PORT"`
}

func TestParseEnv(t *testing.T) {
	t.Setenv("CONFIG_TEST_PORT", "42")

	var s sample
	if err := ParseEnv(&s); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if s.Addr != ":9000" || s.Port != 42 {
		t.Fatalf("unexpected config: %+v", s)
	}
}

func TestParseEnvInvalid(t *testing.T) {
	t.Setenv("CONFIG_TEST_PORT", "forty-two")

	var s sample
	if err := ParseEnv(&s); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	v := fs.String("v", "", "")
	if err := ParseArgs(fs, []string{"-v", "x"}); err != nil || *v != "x" {
		t.Fatalf("expected flag parsed, got %q err=%v", *v, err)
	}
	if err := ParseArgs(flag.NewFlagSet("bad", flag.ContinueOnError), []string{"-missing"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
