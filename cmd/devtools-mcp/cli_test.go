package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/devtools-mcp/internal/logging"
	"github.com/neboloop/devtools-mcp/internal/settings"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() {
		logging.SetOutput(os.Stderr)
		logging.Enable()
	})

	var out bytes.Buffer
	root := SetupRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestArgsCommand(t *testing.T) {
	file := writeSettings(t, `
context_servers:
  chrome-devtools-mcp:
    settings:
      headless: true
      channel: Beta
      chrome_arg: ["--no-sandbox", "  "]
      category_network: false
`)

	out, err := execute(t, "args", "--data-dir", t.TempDir(), "--settings", file)
	require.NoError(t, err)

	var argv []string
	require.NoError(t, json.Unmarshal([]byte(out), &argv))
	assert.Equal(t, []string{
		"--headless",
		"--channel", "beta",
		"--chromeArg", "--no-sandbox",
		"--no-category-network",
	}, argv)
}

func TestArgsCommandLines(t *testing.T) {
	file := writeSettings(t, `
context_servers:
  chrome-devtools-mcp:
    settings:
      isolated: true
`)

	out, err := execute(t, "args", "--lines", "--data-dir", t.TempDir(), "--settings", file)
	require.NoError(t, err)
	assert.Equal(t, "--isolated\n", out)
}

func TestArgsCommandServerID(t *testing.T) {
	file := writeSettings(t, `
context_servers:
  other:
    settings:
      headless: true
`)

	out, err := execute(t, "args", "--server-id", "other", "--data-dir", t.TempDir(), "--settings", file)
	require.NoError(t, err)
	assert.JSONEq(t, `["--headless"]`, out)
}

func TestArgsCommandMalformedSettingsUseDefaults(t *testing.T) {
	file := writeSettings(t, `
context_servers:
  chrome-devtools-mcp:
    settings:
      headless: "yes"
`)

	out, err := execute(t, "args", "--data-dir", t.TempDir(), "--settings", file)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "ChromeDevToolsMcpSettings", schema["title"])
}

func TestConfigurationCommand(t *testing.T) {
	out, err := execute(t, "configuration")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEmpty(t, payload["installation_instructions"])
	assert.NotEmpty(t, payload["default_settings"])
	assert.Contains(t, payload["settings_schema"], "ws_endpoint")
}

func TestDoctorReportsConflicts(t *testing.T) {
	file := writeSettings(t, `
context_servers:
  chrome-devtools-mcp:
    settings:
      browser_url: http://127.0.0.1:9222
      ws_endpoint: ws://127.0.0.1:9222/devtools/browser/x
`)

	// Node may be missing on the test machine, so only the report is checked.
	out, _ := execute(t, "doctor", "--offline", "--data-dir", t.TempDir(), "--settings", file)
	assert.Contains(t, out, "Settings Files: "+file)
	assert.Contains(t, out, "Conflict: browser_url conflicts with ws_endpoint")
	assert.Contains(t, out, "not installed")
	assert.Contains(t, out, "Summary:")
}

func TestDoctorInvalidSettings(t *testing.T) {
	file := writeSettings(t, "context_servers: [")

	out, err := execute(t, "doctor", "--offline", "--data-dir", t.TempDir(), "--settings", file)
	assert.Error(t, err)
	assert.Contains(t, out, "defaults will be used")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed pipe") }

func TestReportArgs(t *testing.T) {
	s, err := settings.Parse([]byte(`{"browser_url": "http://h:1", "ws_endpoint": "ws://h:1", "headless": true}`))
	require.NoError(t, err)

	var out bytes.Buffer
	reportArgs(&out, s)
	assert.Contains(t, out.String(), "# browser_url conflicts with ws_endpoint\n")
	assert.Contains(t, out.String(), `"--headless"`)

	var logs bytes.Buffer
	logging.SetOutput(&logs)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	reportArgs(failingWriter{}, settings.Default())
	assert.Contains(t, logs.String(), "watch: write args: closed pipe")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Take a screenshot.", firstLine("Take a screenshot.\nMore text."))
	assert.Equal(t, "single", firstLine("single"))
}
