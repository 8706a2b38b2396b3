package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/gorilla/websocket"
)

// CheckTimeout bounds each reachability check.
const CheckTimeout = 10 * time.Second

// CheckBrowserURL connects to a debuggable Chrome at browserURL (http or ws)
// and returns its product string, e.g. "Chrome/131.0.6778.86".
func CheckBrowserURL(ctx context.Context, browserURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, browserURL)
	defer cancelAlloc()

	// Cancelling the browser context closes the tab chromedp opened.
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var product string
	err := chromedp.Run(taskCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, p, _, _, _, err := cdpbrowser.GetVersion().Do(ctx)
		product = p
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("browser: connect %s: %w", browserURL, err)
	}
	return product, nil
}

// CheckWSEndpoint opens and closes a WebSocket to endpoint, sending headers
// the way upstream does for --wsHeaders.
func CheckWSEndpoint(ctx context.Context, endpoint string, headers any) error {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	h, err := Header(headers)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, h)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("browser: dial %s: %s: %w", endpoint, resp.Status, err)
		}
		return fmt.Errorf("browser: dial %s: %w", endpoint, err)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}

// Header converts a ws_headers value into an http.Header. Only a JSON object
// with scalar values is accepted.
func Header(v any) (http.Header, error) {
	h := http.Header{}
	if v == nil {
		return h, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("browser: ws_headers must be an object, got %T", v)
	}
	for k, val := range m {
		switch val := val.(type) {
		case string:
			h.Set(k, val)
		case json.Number:
			h.Set(k, val.String())
		case float64, bool:
			h.Set(k, fmt.Sprint(val))
		default:
			return nil, fmt.Errorf("browser: ws_headers[%q] must be a scalar, got %T", k, val)
		}
	}
	return h, nil
}

// IsLoopback reports whether rawURL points at this machine. Remote debugging
// endpoints elsewhere expose the whole browser to the network.
func IsLoopback(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "127.0.0.1", "localhost", "::1":
		return true
	}
	return false
}
