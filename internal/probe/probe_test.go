package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serverEnv makes the test binary act as an MCP server on stdio.
const serverEnv = "DEVTOOLS_MCP_TEST_SERVER"

func TestMain(m *testing.M) {
	if os.Getenv(serverEnv) == "1" {
		serveTools()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// serveTools registers tools out of order with a small page size so listing
// them takes several pages.
func serveTools() {
	server := mcp.NewServer(&mcp.Implementation{Name: "fake-devtools", Version: "v0.0.1"}, &mcp.ServerOptions{PageSize: 2})
	for _, name := range []string{"take_screenshot", "click", "navigate_page", "list_pages", "evaluate_script"} {
		server.AddTool(&mcp.Tool{
			Name:        name,
			Description: "Runs " + name + ".\nSecond line.",
			InputSchema: map[string]any{"type": "object"},
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{}, nil
		})
	}
	_ = server.Run(context.Background(), &mcp.StdioTransport{})
}

func TestRunListsAllToolsSorted(t *testing.T) {
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	cmd.Env = append(os.Environ(), serverEnv+"=1")

	res, err := Run(context.Background(), cmd, "test")
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"click", "evaluate_script", "list_pages", "navigate_page", "take_screenshot"}, names)
	assert.Equal(t, "Runs click.\nSecond line.", res.Tools[0].Description)
}

func TestRunMissingBinary(t *testing.T) {
	cmd := exec.Command(filepath.Join(t.TempDir(), "no-such-server"))
	_, err := Run(context.Background(), cmd, "test")
	assert.ErrorContains(t, err, "probe: connect")
}

func TestRunServerExitsImmediately(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	cmd := exec.Command(sh, "-c", "exit 0")
	_, err = Run(context.Background(), cmd, "test")
	assert.Error(t, err)
}
