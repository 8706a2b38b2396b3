// Package args translates Settings into the command-line arguments of the
// upstream chrome-devtools-mcp server.
//
// Build applies a fixed sequence of emission rules. Each rule looks at one or
// two fields and appends zero or more tokens. Options the upstream server treats
// as mutually exclusive are all emitted; rejecting them is left to upstream.
package args

import (
	"bytes"
	"encoding/json"

	"github.com/neboloop/devtools-mcp/internal/settings"
)

// Upstream flag names.
const (
	FlagAutoConnect         = "--autoConnect"
	FlagBrowserURL          = "--browserUrl"
	FlagWSEndpoint          = "--wsEndpoint"
	FlagWSHeaders           = "--wsHeaders"
	FlagHeadless            = "--headless"
	FlagExecutablePath      = "--executablePath"
	FlagIsolated            = "--isolated"
	FlagUserDataDir         = "--userDataDir"
	FlagChannel             = "--channel"
	FlagViewport            = "--viewport"
	FlagChromeArg           = "--chromeArg"
	FlagProxyServer         = "--proxyServer"
	FlagAcceptInsecureCerts = "--acceptInsecureCerts"
	FlagLogFile             = "--logFile"
	FlagNoEmulation         = "--no-category-emulation"
	FlagNoPerformance       = "--no-category-performance"
	FlagNoNetwork           = "--no-category-network"
)

type builder struct {
	out []string
}

func (b *builder) flag(name string) {
	b.out = append(b.out, name)
}

func (b *builder) value(name, v string) {
	b.out = append(b.out, name, v)
}

// text emits name and the trimmed value when p is set and not blank.
func (b *builder) text(name string, p *string) {
	if v, ok := settings.Text(p); ok {
		b.value(name, v)
	}
}

func (b *builder) enabled(name string, p *bool) {
	if settings.IsTrue(p) {
		b.flag(name)
	}
}

func (b *builder) disabled(name string, p *bool) {
	if settings.IsFalse(p) {
		b.flag(name)
	}
}

// Build returns the upstream argument vector for s. The result depends only on
// s, so equal settings always produce identical vectors. It is never nil.
func Build(s settings.Settings) []string {
	b := &builder{out: []string{}}

	// Connection
	b.enabled(FlagAutoConnect, s.AutoConnect)
	b.text(FlagBrowserURL, s.BrowserURL)
	b.text(FlagWSEndpoint, s.WSEndpoint)
	if _, ok := settings.Text(s.WSEndpoint); ok && s.WSHeaders != nil {
		// Upstream only honours --wsHeaders together with --wsEndpoint.
		if h, err := compactJSON(s.WSHeaders); err == nil {
			b.value(FlagWSHeaders, h)
		}
	}

	// Chrome launch
	b.enabled(FlagHeadless, s.Headless)
	b.text(FlagExecutablePath, s.ExecutablePath)
	b.enabled(FlagIsolated, s.Isolated)
	b.text(FlagUserDataDir, s.UserDataDir)
	if s.Channel != nil {
		b.value(FlagChannel, s.Channel.String())
	}
	b.text(FlagViewport, s.Viewport)
	for _, a := range s.ChromeArg {
		b.text(FlagChromeArg, &a)
	}

	// Network
	b.text(FlagProxyServer, s.ProxyServer)
	b.enabled(FlagAcceptInsecureCerts, s.AcceptInsecureCerts)

	// Logging
	b.text(FlagLogFile, s.LogFile)

	// Tool categories default to enabled upstream.
	b.disabled(FlagNoEmulation, s.CategoryEmulation)
	b.disabled(FlagNoPerformance, s.CategoryPerformance)
	b.disabled(FlagNoNetwork, s.CategoryNetwork)

	// Passthrough, untouched.
	b.out = append(b.out, s.ExtraArgs...)

	return b.out
}

// compactJSON encodes v without insignificant whitespace or HTML escaping.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
