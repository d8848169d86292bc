package chat

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Path is the fixed chat endpoint on the relay.
const Path = "/ws"

// ErrNoHost is returned when a page URL carries no host to connect to.
var ErrNoHost = errors.New("page url has no host")

// Endpoint maps the page URL the client was pointed at to the socket URL.
// A secure page scheme selects wss, anything else selects ws.
func Endpoint(page string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(page))
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNoHost, page)
	}

	scheme := "ws"
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		scheme = "wss"
	}

	return (&url.URL{Scheme: scheme, Host: u.Host, Path: Path}).String(), nil
}
