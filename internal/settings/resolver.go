package settings

import (
	"encoding/json"

	"github.com/neboloop/devtools-mcp/internal/logging"
)

// Source looks up the raw settings of one context server for a project.
// A nil value with a nil error means nothing is configured.
type Source interface {
	Lookup(serverID, project string) (json.RawMessage, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(serverID, project string) (json.RawMessage, error)

// Lookup calls f.
func (f SourceFunc) Lookup(serverID, project string) (json.RawMessage, error) {
	return f(serverID, project)
}

// Resolver turns host configuration into Settings. It never fails: a missing
// configuration system or a schema mismatch both resolve to Default so the
// server can still start.
type Resolver struct {
	Source   Source
	ServerID string
}

// Resolve returns the settings for project.
func (r *Resolver) Resolve(project string) Settings {
	if r.Source == nil {
		return Default()
	}

	raw, err := r.Source.Lookup(r.ServerID, project)
	if err != nil {
		logging.Warnf("settings for %s unavailable, using defaults: %v", r.ServerID, err)
		return Default()
	}

	s, err := Parse(raw)
	if err != nil {
		logging.Warnf("settings for %s are invalid, using defaults: %v", r.ServerID, err)
		return Default()
	}
	return s
}
