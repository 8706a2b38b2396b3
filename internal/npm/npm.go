// Package npm installs and locates the upstream server package and the
// Node.js runtime it runs on.
package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultRegistry is used when npm_config_registry is not set.
	DefaultRegistry = "https://registry.npmjs.org"
	// HTTP timeout for the registry lookup
	timeout = 10 * time.Second
)

// ErrNodeNotFound is returned when no Node.js runtime can be located.
var ErrNodeNotFound = errors.New("npm: node runtime not found")

// Client talks to the npm registry and manages packages under Dir.
type Client struct {
	// Dir is the npm prefix; packages land in Dir/node_modules.
	Dir string

	// Registry overrides the registry base URL.
	Registry string

	// Node and NPM override runtime lookup on PATH.
	Node string
	NPM  string

	// Output receives npm install output. Defaults to os.Stderr.
	Output io.Writer

	HTTPClient *http.Client
}

// New returns a Client installing into dir.
func New(dir string) *Client {
	return &Client{Dir: dir}
}

func (c *Client) registry() string {
	if c.Registry != "" {
		return strings.TrimSuffix(c.Registry, "/")
	}
	if r := os.Getenv("npm_config_registry"); r != "" {
		return strings.TrimSuffix(r, "/")
	}
	return DefaultRegistry
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// packageManifest is the subset of package.json we read.
type packageManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LatestVersion returns the version tagged latest for name.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.registry() + "/" + url.PathEscape(name) + "/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("npm: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("npm: fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("npm: registry returned %d for %s", resp.StatusCode, name)
	}

	var m packageManifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return "", fmt.Errorf("npm: decode response: %w", err)
	}
	if m.Version == "" {
		return "", fmt.Errorf("npm: no version for %s", name)
	}
	return m.Version, nil
}

// PackageDir returns where name is installed.
func (c *Client) PackageDir(name string) string {
	return filepath.Join(c.Dir, "node_modules", filepath.FromSlash(name))
}

// InstalledVersion returns the installed version of name, or "" when it is
// not installed.
func (c *Client) InstalledVersion(ctx context.Context, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(c.PackageDir(name), "package.json"))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("npm: read installed %s: %w", name, err)
	}

	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("npm: parse installed %s: %w", name, err)
	}
	return m.Version, nil
}

// Install installs name@version into Dir.
func (c *Client) Install(ctx context.Context, name, version string) error {
	npmPath, err := c.npmBinary()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("npm: create %s: %w", c.Dir, err)
	}

	out := c.Output
	if out == nil {
		out = os.Stderr
	}

	cmd := exec.CommandContext(ctx, npmPath, installArgs(c.Dir, name, version)...)
	cmd.Dir = c.Dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("npm: install %s@%s: %w", name, version, err)
	}
	return nil
}

func installArgs(dir, name, version string) []string {
	spec := name
	if version != "" {
		spec = name + "@" + version
	}
	return []string{"install", "--prefix", dir, "--no-audit", "--no-fund", spec}
}

func (c *Client) npmBinary() (string, error) {
	if c.NPM != "" {
		return c.NPM, nil
	}
	p, err := exec.LookPath("npm")
	if err != nil {
		return "", fmt.Errorf("npm: npm not found on PATH: %w", err)
	}
	return p, nil
}

// NodeBinary returns the Node.js executable.
func (c *Client) NodeBinary(ctx context.Context) (string, error) {
	if c.Node != "" {
		if _, err := os.Stat(c.Node); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNodeNotFound, c.Node)
		}
		return c.Node, nil
	}
	p, err := exec.LookPath("node")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNodeNotFound, err)
	}
	return p, nil
}
