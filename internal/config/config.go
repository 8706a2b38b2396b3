// Package config reads host settings files and serves the raw per-server
// settings object to the settings resolver.
//
// A settings file is YAML (JSON is accepted as a YAML subset):
//
//	context_servers:
//	  chrome-devtools-mcp:
//	    settings:
//	      headless: true
//
// The global file lives in the data directory and a project may override
// individual keys in <project>/.devtools-mcp/settings.yaml.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectDir is the per-project settings directory name.
const ProjectDir = ".devtools-mcp"

// FileNames are the settings file names tried in each directory, in order.
var FileNames = []string{"settings.yaml", "settings.yml", "settings.json"}

// ErrNotObject is returned when a server's settings value is not a mapping.
var ErrNotObject = errors.New("config: settings must be an object")

// HostSettings is the content of one settings file.
type HostSettings struct {
	ContextServers map[string]ServerEntry `yaml:"context_servers" json:"context_servers"`
}

// ServerEntry holds the settings of one context server.
type ServerEntry struct {
	Settings any `yaml:"settings" json:"settings"`
}

// LoadFromBytes parses a settings file with environment variable expansion.
func LoadFromBytes(data []byte) (*HostSettings, error) {
	var h HostSettings
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// LoadFile reads and parses the settings file at path.
func LoadFile(path string) (*HostSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	h, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return h, nil
}

// server returns the settings object for id, or nil when it is not configured.
func (h *HostSettings) server(id string) (map[string]any, error) {
	if h == nil {
		return nil, nil
	}
	entry, ok := h.ContextServers[id]
	if !ok || entry.Settings == nil {
		return nil, nil
	}
	m, ok := entry.Settings.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// FileSource looks settings up in the global and project settings files.
type FileSource struct {
	// GlobalDir holds the global settings file, normally the data directory.
	GlobalDir string

	// Explicit, when set, is the only file consulted.
	Explicit string
}

// Files returns the settings files that exist for project, lowest precedence
// first.
func (s *FileSource) Files(project string) []string {
	if s.Explicit != "" {
		return []string{s.Explicit}
	}

	var files []string
	for _, dir := range s.dirs(project) {
		if f := firstExisting(dir); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// Dirs returns the directories that may hold settings files for project.
func (s *FileSource) Dirs(project string) []string {
	if s.Explicit != "" {
		return []string{filepath.Dir(s.Explicit)}
	}
	return s.dirs(project)
}

func (s *FileSource) dirs(project string) []string {
	var dirs []string
	if s.GlobalDir != "" {
		dirs = append(dirs, s.GlobalDir)
	}
	if project != "" {
		dirs = append(dirs, filepath.Join(project, ProjectDir))
	}
	return dirs
}

// Lookup returns the merged raw settings of serverID for project. Keys from
// the project file replace keys from the global file. It returns nil when no
// file configures the server and an error when a file cannot be read or
// parsed.
func (s *FileSource) Lookup(serverID, project string) (json.RawMessage, error) {
	var merged map[string]any
	for _, path := range s.Files(project) {
		h, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		m, err := h.server(serverID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if m == nil {
			continue
		}
		if merged == nil {
			merged = make(map[string]any, len(m))
		}
		for k, v := range m {
			merged[k] = v
		}
	}

	if merged == nil {
		return nil, nil
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("config: encode settings for %s: %w", serverID, err)
	}
	return raw, nil
}

func firstExisting(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
