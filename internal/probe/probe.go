// Package probe starts the upstream server as an MCP client would and reports
// what it serves. It verifies a composed command end to end.
package probe

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/devtools-mcp/internal/logging"
)

// Timeout bounds the whole probe including server start-up.
const Timeout = 60 * time.Second

// Tool is one tool advertised by the server.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Result describes the server reached by Run.
type Result struct {
	Tools []Tool `json:"tools"`
}

// Run starts cmd over stdio, performs the MCP handshake, lists the tools and
// shuts the server down again.
func Run(ctx context.Context, cmd *exec.Cmd, version string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "devtools-mcp",
		Version: version,
	}, nil)

	transport := &mcp.CommandTransport{Command: cmd}
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("probe: connect: %w", err)
	}
	defer session.Close()

	logging.Debugf("probe: connected to %s", cmd.Path)

	res := &Result{}
	params := &mcp.ListToolsParams{}
	for {
		page, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("probe: list tools: %w", err)
		}
		for _, tool := range page.Tools {
			res.Tools = append(res.Tools, Tool{Name: tool.Name, Description: tool.Description})
		}
		if page.NextCursor == "" {
			break
		}
		params = &mcp.ListToolsParams{Cursor: page.NextCursor}
	}
	sort.Slice(res.Tools, func(i, j int) bool { return res.Tools[i].Name < res.Tools[j].Name })

	return res, nil
}
