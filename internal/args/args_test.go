package args

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/devtools-mcp/internal/settings"
)

func ptr[T any](v T) *T { return &v }

func parse(t *testing.T, raw string) settings.Settings {
	t.Helper()
	s, err := settings.Parse([]byte(raw))
	require.NoError(t, err)
	return s
}

func indexOf(args []string, tok string) int {
	for i, a := range args {
		if a == tok {
			return i
		}
	}
	return -1
}

func TestBuildEmpty(t *testing.T) {
	got := Build(settings.Default())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildFullOrder(t *testing.T) {
	// Keys deliberately listed in a different order than the emission rules.
	s := parse(t, `{
		"extra_args": ["--tail"],
		"category_network": false,
		"category_performance": false,
		"category_emulation": false,
		"log_file": "/tmp/log",
		"accept_insecure_certs": true,
		"proxy_server": "http://proxy",
		"chrome_arg": ["--a", "--b"],
		"viewport": "800x600",
		"channel": "DEV",
		"user_data_dir": "/data",
		"isolated": true,
		"executable_path": "/bin/chrome",
		"headless": true,
		"ws_headers": {"k": "v"},
		"ws_endpoint": "ws://h/p",
		"browser_url": "http://h:9222",
		"auto_connect": true
	}`)

	want := []string{
		"--autoConnect",
		"--browserUrl", "http://h:9222",
		"--wsEndpoint", "ws://h/p",
		"--wsHeaders", `{"k":"v"}`,
		"--headless",
		"--executablePath", "/bin/chrome",
		"--isolated",
		"--userDataDir", "/data",
		"--channel", "dev",
		"--viewport", "800x600",
		"--chromeArg", "--a",
		"--chromeArg", "--b",
		"--proxyServer", "http://proxy",
		"--acceptInsecureCerts",
		"--logFile", "/tmp/log",
		"--no-category-emulation",
		"--no-category-performance",
		"--no-category-network",
		"--tail",
	}
	assert.Equal(t, want, Build(s))
}

func TestBuildHeadersRequireEndpoint(t *testing.T) {
	s := parse(t, `{"ws_headers": {"Authorization": "Bearer x"}}`)
	got := Build(s)
	assert.NotContains(t, got, FlagWSHeaders)
	assert.NotContains(t, got, FlagWSEndpoint)

	s = parse(t, `{"ws_headers": {"Authorization": "Bearer x"}, "ws_endpoint": "   "}`)
	assert.Empty(t, Build(s))
}

func TestBuildHeadersCompact(t *testing.T) {
	s := parse(t, `{"ws_endpoint": "ws://h/p", "ws_headers": { "Authorization" : "Bearer x" }}`)
	got := Build(s)

	i := indexOf(got, FlagWSEndpoint)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "ws://h/p", got[i+1])

	j := indexOf(got, FlagWSHeaders)
	require.Greater(t, j, i)
	assert.Equal(t, `{"Authorization":"Bearer x"}`, got[j+1])
}

func TestBuildHeadersNoHTMLEscape(t *testing.T) {
	s := parse(t, `{"ws_endpoint": "ws://h/p", "ws_headers": {"Cookie": "a=<b>&c"}}`)
	got := Build(s)
	assert.Equal(t, `{"Cookie":"a=<b>&c"}`, got[len(got)-1])
}

func TestBuildHeadersKeepLargeIntegers(t *testing.T) {
	s := parse(t, `{"ws_endpoint": "ws://h/p", "ws_headers": {"X-Id": 12345678901234567891, "X-Neg": -9223372036854775808}}`)
	got := Build(s)
	assert.Equal(t, `{"X-Id":12345678901234567891,"X-Neg":-9223372036854775808}`, got[len(got)-1])
}

func TestBuildHeadersUnserializableSkipped(t *testing.T) {
	s := settings.Settings{
		WSEndpoint: ptr("ws://h/p"),
		WSHeaders:  map[string]any{"bad": math.NaN()},
		Headless:   ptr(true),
	}
	assert.Equal(t, []string{"--wsEndpoint", "ws://h/p", "--headless"}, Build(s))
}

func TestBuildCategoryToggles(t *testing.T) {
	s := parse(t, `{"category_emulation": false}`)
	assert.Equal(t, []string{"--no-category-emulation"}, Build(s))

	s = parse(t, `{"category_emulation": true, "category_performance": true, "category_network": true}`)
	assert.Empty(t, Build(s))
}

func TestBuildFalseBoolsEmitNothing(t *testing.T) {
	s := parse(t, `{"auto_connect": false, "headless": false, "isolated": false, "accept_insecure_certs": false}`)
	assert.Empty(t, Build(s))
}

func TestBuildChromeArgs(t *testing.T) {
	s := parse(t, `{"chrome_arg": ["", "  --foo ", "bar"]}`)
	assert.Equal(t, []string{"--chromeArg", "--foo", "--chromeArg", "bar"}, Build(s))
}

func TestBuildChannelLowercase(t *testing.T) {
	s := parse(t, `{"channel": "Canary"}`)
	assert.Equal(t, []string{"--channel", "canary"}, Build(s))
}

func TestBuildTrimsStrings(t *testing.T) {
	s := parse(t, `{"browser_url": "  http://h:1  ", "viewport": " ", "log_file": ""}`)
	assert.Equal(t, []string{"--browserUrl", "http://h:1"}, Build(s))
}

func TestBuildExtraArgsVerbatim(t *testing.T) {
	s := parse(t, `{"headless": true, "extra_args": ["--weird-flag", "value with spaces", "", "  padded  "]}`)
	got := Build(s)
	assert.Equal(t, []string{"--headless", "--weird-flag", "value with spaces", "", "  padded  "}, got)
}

func TestBuildEmitsConflictingOptions(t *testing.T) {
	s := parse(t, `{"auto_connect": true, "executable_path": "/bin/chrome", "isolated": true}`)
	assert.Equal(t, []string{"--autoConnect", "--executablePath", "/bin/chrome", "--isolated"}, Build(s))
}

func TestBuildIdempotent(t *testing.T) {
	s := parse(t, `{"ws_endpoint": "ws://h", "ws_headers": {"b": 1, "a": [1, 2]}, "chrome_arg": ["x"], "extra_args": ["y"]}`)
	first := Build(s)
	second := Build(s)
	assert.Equal(t, first, second)
	assert.Equal(t, `{"a":[1,2],"b":1}`, first[indexOf(first, FlagWSHeaders)+1])
}

func TestBuildMalformedSettingsYieldEmptyVector(t *testing.T) {
	s := settings.ParseOrDefault([]byte(`{"channel": "weekly", "headless": true}`))
	assert.Empty(t, Build(s))
}
