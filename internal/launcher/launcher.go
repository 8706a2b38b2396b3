// Package launcher composes the command that starts the upstream MCP server:
// resolve settings, keep the npm package current, locate Node.js and append
// the translated arguments to the package entrypoint.
package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/neboloop/devtools-mcp/internal/args"
	"github.com/neboloop/devtools-mcp/internal/logging"
	"github.com/neboloop/devtools-mcp/internal/settings"
)

const (
	// ServerID keys this server's settings in the host configuration.
	ServerID = "chrome-devtools-mcp"

	// PackageName is the upstream npm package.
	PackageName = "chrome-devtools-mcp"

	// Entrypoint is the upstream script relative to the npm prefix. The package
	// declares "bin": "./build/src/index.js".
	Entrypoint = "node_modules/chrome-devtools-mcp/build/src/index.js"
)

// Packages installs and inspects the upstream package. It owns all
// process-wide install state; the launcher only asks and acts.
type Packages interface {
	LatestVersion(ctx context.Context, name string) (string, error)
	InstalledVersion(ctx context.Context, name string) (string, error)
	Install(ctx context.Context, name, version string) error
}

// Runtime locates the JavaScript runtime.
type Runtime interface {
	NodeBinary(ctx context.Context) (string, error)
}

// Command is a launchable process description, shaped like the command
// objects editors accept for context servers.
type Command struct {
	Path string   `json:"command"`
	Args []string `json:"args"`
	Env  []string `json:"env"`
}

// Launcher builds Commands. Zero-valued names fall back to the package
// constants.
type Launcher struct {
	Resolver *settings.Resolver
	Packages Packages
	Runtime  Runtime

	// WorkDir is the directory the entrypoint is resolved against. Empty means
	// the current working directory.
	WorkDir string

	Package    string
	Entrypoint string

	// SkipInstall disables the install/update check.
	SkipInstall bool
}

func (l *Launcher) pkg() string {
	if l.Package != "" {
		return l.Package
	}
	return PackageName
}

func (l *Launcher) entrypoint() string {
	if l.Entrypoint != "" {
		return l.Entrypoint
	}
	return Entrypoint
}

// Settings resolves the settings for project.
func (l *Launcher) Settings(project string) settings.Settings {
	if l.Resolver == nil {
		return settings.Default()
	}
	return l.Resolver.Resolve(project)
}

// Command returns the command that launches the server for project. Settings
// problems never fail it; a missing runtime, an unreadable working directory
// or a failed install do.
func (l *Launcher) Command(ctx context.Context, project string) (*Command, error) {
	log := logging.With("launch=" + uuid.NewString()[:8])

	s := l.Settings(project)

	if !l.SkipInstall {
		if err := l.ensurePackage(ctx, log); err != nil {
			return nil, err
		}
	}

	if l.Runtime == nil {
		return nil, fmt.Errorf("launcher: no runtime locator")
	}
	node, err := l.Runtime.NodeBinary(ctx)
	if err != nil {
		return nil, fmt.Errorf("launcher: locate node: %w", err)
	}

	entrypoint, err := l.EntrypointPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(entrypoint); err != nil {
		log.Warnf("expected MCP server entrypoint missing: %s", entrypoint)
		log.Warnf("package layout/version may differ; expected %s", l.entrypoint())
	} else {
		log.Infof("launching MCP server entrypoint: %s", entrypoint)
	}

	argv := append([]string{entrypoint}, args.Build(s)...)
	log.Debugf("server args: %q", argv[1:])
	return &Command{
		Path: node,
		Args: argv,
		Env:  []string{},
	}, nil
}

// EntrypointPath returns the absolute entrypoint path.
func (l *Launcher) EntrypointPath() (string, error) {
	dir := l.WorkDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("launcher: working directory: %w", err)
		}
		dir = cwd
	}
	return filepath.Join(dir, filepath.FromSlash(l.entrypoint())), nil
}

// ensurePackage installs the latest upstream version when the installed one
// differs. An unreachable registry is tolerated as long as some version is
// installed.
func (l *Launcher) ensurePackage(ctx context.Context, log logging.Logger) error {
	if l.Packages == nil {
		return nil
	}
	name := l.pkg()

	installed, err := l.Packages.InstalledVersion(ctx, name)
	if err != nil {
		return fmt.Errorf("launcher: installed version of %s: %w", name, err)
	}

	latest, err := l.Packages.LatestVersion(ctx, name)
	if err != nil {
		if installed != "" {
			log.Warnf("cannot check latest %s, keeping %s: %v", name, installed, err)
			return nil
		}
		return fmt.Errorf("launcher: latest version of %s: %w", name, err)
	}

	log.Infof("npm package: %s installed=%s latest=%s", name, displayVersion(installed), latest)

	if installed == latest {
		return nil
	}

	log.Infof("installing/updating npm package %s@%s", name, latest)
	if err := l.Packages.Install(ctx, name, latest); err != nil {
		return fmt.Errorf("launcher: %w", err)
	}
	return nil
}

func displayVersion(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
