package settings

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaTitle names the settings object in the exported schema.
const SchemaTitle = "ChromeDevToolsMcpSettings"

// Schema returns the JSON schema of Settings for host-side validation. It is
// derived by reflection; the only hand-written part is the channel enum.
func Schema() ([]byte, error) {
	sch, err := jsonschema.For[Settings](nil)
	if err != nil {
		return nil, fmt.Errorf("settings: reflect schema: %w", err)
	}
	sch.Title = SchemaTitle
	sch.Description = "Settings for the chrome-devtools-mcp context server. Anything not modeled can be passed with extra_args."
	// Unknown keys are ignored when parsing.
	sch.AdditionalProperties = nil

	if ch, ok := sch.Properties["channel"]; ok {
		ch.Enum = []any{nil}
		for _, c := range Channels {
			ch.Enum = append(ch.Enum, string(c))
		}
	}

	data, err := json.Marshal(sch)
	if err != nil {
		return nil, fmt.Errorf("settings: encode schema: %w", err)
	}
	return data, nil
}
