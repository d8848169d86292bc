// Package relay serves the chat page and the /ws broadcast endpoint.
package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dev-dami/go-chat-relay/web"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

// Config holds relay HTTP settings.
type Config struct {
	Title           string
	ShutdownTimeout time.Duration
}

// NewApp builds the relay routes around hub.
func NewApp(hub *Hub, cfg Config, logger zerolog.Logger) *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Views), ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	})

	app.Get("/up", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{"Title": cfg.Title})
	})

	app.Use("/static", filesystem.New(filesystem.Config{
		Root: http.FS(web.Static),
	}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.HandleWebSocket))

	return app
}

// Listen serves the relay on addr until ctx is done.
func Listen(ctx context.Context, addr string, cfg Config, logger zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return Serve(ctx, ln, NewHub(logger), cfg, logger)
}

// Serve runs hub and the relay app on ln. Cancelling ctx closes every socket
// and shuts the app down.
func Serve(ctx context.Context, ln net.Listener, hub *Hub, cfg Config, logger zerolog.Logger) error {
	app := NewApp(hub, cfg, logger)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go hub.HandleMessages(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listener(ln)
	}()
	logger.Info().Str("addr", ln.Addr().String()).Str("hub", hub.ID()).Msg("relay listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	stopHub()
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info().Msg("relay stopped")
	return nil
}
