// Package defaults provides embedded default files and the data directory.
// The data directory holds the global settings file and the npm prefix the
// upstream server is installed into.
//
// Platform paths:
//
//	macOS:   ~/Library/Application Support/DevToolsMCP/
//	Windows: %AppData%\DevToolsMCP\
//	Linux:   ~/.config/devtools-mcp/
//
// Override with DEVTOOLS_MCP_DATA_DIR environment variable.
package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DataDirEnv overrides the data directory.
const DataDirEnv = "DEVTOOLS_MCP_DATA_DIR"

// Files copied into the data directory on first run.
//
//go:embed files/settings.yaml
var dataFiles embed.FS

//go:embed files/default_settings.jsonc
var defaultSettings string

//go:embed files/installation_instructions.md
var installationInstructions string

// DefaultSettings returns the commented settings template shown by hosts.
func DefaultSettings() string {
	return defaultSettings
}

// InstallationInstructions returns the markdown shown to users before the
// server is configured.
func InstallationInstructions() string {
	return installationInstructions
}

// DataDir returns the platform-appropriate data directory.
//
// Set DEVTOOLS_MCP_DATA_DIR to override.
func DataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}

	// Linux: lowercase per XDG convention
	if runtime.GOOS == "linux" {
		return filepath.Join(configDir, "devtools-mcp"), nil
	}
	return filepath.Join(configDir, "DevToolsMCP"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist
// and copies default files if they're missing.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := copyDefaults(dir, false); err != nil {
		return "", err
	}

	return dir, nil
}

// Reset replaces the default files in dir. Installed packages are kept.
func Reset(dir string) error {
	return copyDefaults(dir, true)
}

func copyDefaults(dir string, overwrite bool) error {
	return fs.WalkDir(dataFiles, "files", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// embed.FS always uses forward slashes.
		destPath := filepath.Join(dir, strings.TrimPrefix(path, "files/"))

		if !overwrite {
			if _, err := os.Stat(destPath); err == nil {
				return nil
			}
		}

		data, err := dataFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", path, err)
		}
		if err := os.WriteFile(destPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", destPath, err)
		}
		return nil
	})
}
