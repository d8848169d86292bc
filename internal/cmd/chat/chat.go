// Package chat parses client command flags and runs the terminal chat.
package chat

import (
	"context"
	"flag"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	client "github.com/dev-dami/go-chat-relay/internal/chat"
	"github.com/dev-dami/go-chat-relay/internal/config"
	"github.com/dev-dami/go-chat-relay/internal/logging"
	"github.com/dev-dami/go-chat-relay/internal/tui"
)

// Config holds chat client configuration.
type Config struct {
	URL              string        `env:"CHAT_URL"               envDefault:"http://localhost:8080"`
	Name             string        `env:"CHAT_NAME"`
	LogFile          string        `env:"CHAT_LOG_FILE"`
	LogLevel         string        `env:"CHAT_LOG_LEVEL"         envDefault:"info"`
	HandshakeTimeout time.Duration `env:"CHAT_HANDSHAKE_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.URL, "url", cfg.URL, "relay page URL; https selects wss")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "initial display name")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", cfg.HandshakeTimeout, "websocket handshake timeout")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run connects to the relay and drives the terminal UI until the user quits
// or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	logger, closer, err := logging.File(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	conn, err := client.Dial(ctx, cfg.URL, client.DialOptions{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan string)
	go func() {
		if err := conn.Run(ctx, frames); err != nil {
			logger.Warn().Err(err).Msg("connection ended")
		}
	}()

	p := tea.NewProgram(tui.New(conn, frames, cfg.Name), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
