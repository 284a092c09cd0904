// Package ws dials the game's streaming endpoint. Tunnelling honours the
// same per-account proxy used for HTTP calls.
package ws

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	adhttp "github.com/voloshyn/leks-tap-bot/internal/adapters/http"
)

const openTimeout = 10 * time.Second

// Dial opens the streaming connection, waiting at most 10 seconds for the
// handshake to complete. Headers carry the account's identity profile so the
// upgrade request matches the HTTP fingerprint.
func Dial(socketURL, proxy, userAgent string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: openTimeout,
	}

	if proxy != "" {
		proxyURL, err := adhttp.ParseProxy(proxy)
		if err != nil {
			return nil, err
		}
		dialer.Proxy = http.ProxyURL(proxyURL)
	}

	headers := http.Header{}
	if userAgent != "" {
		headers.Set("User-Agent", userAgent)
	}

	conn, _, err := dialer.Dial(socketURL, headers)
	if err != nil {
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}
	return conn, nil
}
