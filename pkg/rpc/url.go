package rpc

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseURL turns an xo-server address into the websocket URL of its API.
// "localhost:9000" and "http://localhost:9000" both become "ws://localhost:9000/api/".
func ParseURL(address string) (*url.URL, error) {
	if address == "" {
		return nil, fmt.Errorf("empty server address")
	}
	if !strings.Contains(address, "://") {
		address = "ws://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server address %q: %w", address, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported scheme %q in server address", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in server address %q", address)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api/"
	}

	return u, nil
}

func originOf(u *url.URL) string {
	scheme := "http"
	if u.Scheme == "wss" {
		scheme = "https"
	}
	return scheme + "://" + u.Host + "/"
}
