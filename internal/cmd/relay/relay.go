// Package relay parses relay command flags and serves the chat relay.
package relay

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dev-dami/go-chat-relay/internal/config"
	"github.com/dev-dami/go-chat-relay/internal/logging"
	server "github.com/dev-dami/go-chat-relay/internal/relay"
)

// Config holds relay command configuration.
type Config struct {
	Addr            string        `env:"CHAT_RELAY_ADDR"             envDefault:":8080"`
	Title           string        `env:"CHAT_RELAY_TITLE"            envDefault:"GC"`
	LogLevel        string        `env:"CHAT_LOG_LEVEL"              envDefault:"info"`
	ShutdownTimeout time.Duration `env:"CHAT_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "relay HTTP listen address")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "chat page title")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the relay until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.Console(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := server.Listen(ctx, cfg.Addr, server.Config{
		Title:           cfg.Title,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger); err != nil {
		return fmt.Errorf("serve relay: %w", err)
	}
	return nil
}
