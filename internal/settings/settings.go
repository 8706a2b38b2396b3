// Package settings holds the typed configuration of the upstream
// chrome-devtools-mcp server and the rules for resolving it from raw host
// configuration.
//
// The option names follow the upstream CLI (src/cli.ts). Anything not modeled
// can be forwarded with ExtraArgs.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Channel is a Chrome release channel.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelCanary Channel = "canary"
	ChannelBeta   Channel = "beta"
	ChannelDev    Channel = "dev"
)

// Channels lists every valid channel in upstream order.
var Channels = []Channel{ChannelStable, ChannelCanary, ChannelBeta, ChannelDev}

// ParseChannel maps s case-insensitively onto a Channel.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q (want stable, canary, beta or dev)", s)
}

// String returns the lowercase token passed to --channel.
func (c Channel) String() string {
	return string(c)
}

// UnmarshalJSON accepts any casing of the four channel names.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("channel: %w", err)
	}
	parsed, err := ParseChannel(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// StringList is a list of strings that rejects null elements.
type StringList []string

// UnmarshalJSON decodes a JSON array of strings.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []*string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		*l = nil
		return nil
	}
	out := make(StringList, 0, len(items))
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("element %d is null", i)
		}
		out = append(out, *item)
	}
	*l = out
	return nil
}

// Settings configures one launch of the upstream server. Nil pointers and
// empty slices mean "not set"; the upstream default then applies.
//
// A Settings value is built fresh for every launch and never mutated after
// resolution.
type Settings struct {
	// Connection

	AutoConnect *bool   `json:"auto_connect,omitempty" jsonschema:"Upstream --autoConnect. Connect to a running Chrome 145+ in the user data directory of the selected channel. Conflicts with isolated and executable_path."`
	BrowserURL  *string `json:"browser_url,omitempty" jsonschema:"Upstream --browserUrl. Connect to a running debuggable Chrome over HTTP, e.g. http://127.0.0.1:9222. Conflicts with ws_endpoint."`
	WSEndpoint  *string `json:"ws_endpoint,omitempty" jsonschema:"Upstream --wsEndpoint. Connect to a running Chrome over WebSocket. Conflicts with browser_url."`
	WSHeaders   any     `json:"ws_headers,omitempty" jsonschema:"Upstream --wsHeaders. Custom WebSocket headers as a JSON object; only used when ws_endpoint is set."`

	// Chrome launch

	Headless       *bool    `json:"headless,omitempty" jsonschema:"Upstream --headless. Run Chrome without UI."`
	ExecutablePath *string  `json:"executable_path,omitempty" jsonschema:"Upstream --executablePath. Path to a custom Chrome executable."`
	Isolated       *bool    `json:"isolated,omitempty" jsonschema:"Upstream --isolated. Use a temporary user data directory removed when the browser closes."`
	UserDataDir    *string  `json:"user_data_dir,omitempty" jsonschema:"Upstream --userDataDir. Chrome profile directory."`
	Channel        *Channel `json:"channel,omitempty" jsonschema:"Upstream --channel. One of stable, canary, beta, dev."`
	Viewport       *string  `json:"viewport,omitempty" jsonschema:"Upstream --viewport. Initial viewport as WIDTHxHEIGHT, e.g. 1280x720."`
	ChromeArg      StringList `json:"chrome_arg,omitempty" jsonschema:"Upstream --chromeArg, repeated. Extra arguments for a Chrome launched by the server."`

	// Network

	ProxyServer         *string `json:"proxy_server,omitempty" jsonschema:"Upstream --proxyServer. Passed to Chrome as --proxy-server."`
	AcceptInsecureCerts *bool   `json:"accept_insecure_certs,omitempty" jsonschema:"Upstream --acceptInsecureCerts. Ignore self-signed and expired certificate errors."`

	// Logging

	LogFile *string `json:"log_file,omitempty" jsonschema:"Upstream --logFile. Write debug logs to this file."`

	// Tool categories, enabled unless explicitly false

	CategoryEmulation   *bool `json:"category_emulation,omitempty" jsonschema:"Set to false to exclude emulation tools."`
	CategoryPerformance *bool `json:"category_performance,omitempty" jsonschema:"Set to false to exclude performance tools."`
	CategoryNetwork     *bool `json:"category_network,omitempty" jsonschema:"Set to false to exclude network tools."`

	// Passthrough

	ExtraArgs StringList `json:"extra_args,omitempty" jsonschema:"Extra arguments appended verbatim to the upstream command line."`
}

// Default returns settings with every option unset.
func Default() Settings {
	return Settings{}
}

// ErrNotObject is returned by Parse when the raw value is not a JSON object.
var ErrNotObject = errors.New("settings: value is not a JSON object")

// Parse decodes raw host configuration into Settings. An empty value yields
// Default. Keys match exactly; unknown keys are ignored so that older settings
// keep working after the schema grows. Type mismatches, null list elements,
// unknown channel names and repeated keys are errors.
func Parse(raw []byte) (Settings, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Default(), nil
	}
	if raw[0] != '{' {
		return Default(), ErrNotObject
	}

	var s Settings
	fields := s.fields()
	seen := make(map[string]bool, len(fields))

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return Default(), fmt.Errorf("settings: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Default(), fmt.Errorf("settings: %w", err)
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Default(), fmt.Errorf("settings: %w", err)
		}

		target, ok := fields[key]
		if !ok {
			continue
		}
		if seen[key] {
			return Default(), fmt.Errorf("settings: duplicate field %q", key)
		}
		seen[key] = true

		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		if err := decodeField(key, value, target); err != nil {
			return Default(), fmt.Errorf("settings: %s: %w", key, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return Default(), fmt.Errorf("settings: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Default(), fmt.Errorf("settings: unexpected data after object")
	}
	return s, nil
}

// fields maps every JSON key of Settings to the field it fills.
func (s *Settings) fields() map[string]any {
	return map[string]any{
		"auto_connect":          &s.AutoConnect,
		"browser_url":           &s.BrowserURL,
		"ws_endpoint":           &s.WSEndpoint,
		"ws_headers":            &s.WSHeaders,
		"headless":              &s.Headless,
		"executable_path":       &s.ExecutablePath,
		"isolated":              &s.Isolated,
		"user_data_dir":         &s.UserDataDir,
		"channel":               &s.Channel,
		"viewport":              &s.Viewport,
		"chrome_arg":            &s.ChromeArg,
		"proxy_server":          &s.ProxyServer,
		"accept_insecure_certs": &s.AcceptInsecureCerts,
		"log_file":              &s.LogFile,
		"category_emulation":    &s.CategoryEmulation,
		"category_performance":  &s.CategoryPerformance,
		"category_network":      &s.CategoryNetwork,
		"extra_args":            &s.ExtraArgs,
	}
}

// decodeField fills target from value. ws_headers keeps numbers as
// json.Number so large integers survive re-encoding.
func decodeField(key string, value json.RawMessage, target any) error {
	if key != "ws_headers" {
		return json.Unmarshal(value, target)
	}
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	return dec.Decode(target)
}

// ParseOrDefault is Parse with every failure replaced by Default. A partially
// decoded value never escapes.
func ParseOrDefault(raw []byte) Settings {
	s, err := Parse(raw)
	if err != nil {
		return Default()
	}
	return s
}

// Text returns the trimmed value of an optional string and whether it is
// non-empty after trimming.
func Text(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.TrimSpace(*p)
	return v, v != ""
}

// IsTrue reports whether an optional bool is explicitly true.
func IsTrue(p *bool) bool {
	return p != nil && *p
}

// IsFalse reports whether an optional bool is explicitly false.
func IsFalse(p *bool) bool {
	return p != nil && !*p
}
