package settings

import "fmt"

// Conflict names two options that the upstream server treats as mutually
// exclusive. Conflicts are reported only; the argument builder still emits
// every option that is set and leaves rejection to the upstream process.
type Conflict struct {
	A, B string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflicts with %s", c.A, c.B)
}

// Conflicts lists the exclusive option pairs that are both set in s, in a
// stable order. It also flags ws_headers without ws_endpoint, which is
// silently dropped.
func Conflicts(s Settings) []Conflict {
	set := map[string]bool{
		"auto_connect":    IsTrue(s.AutoConnect),
		"isolated":        IsTrue(s.Isolated),
		"browser_url":     nonEmpty(s.BrowserURL),
		"ws_endpoint":     nonEmpty(s.WSEndpoint),
		"executable_path": nonEmpty(s.ExecutablePath),
		"user_data_dir":   nonEmpty(s.UserDataDir),
		"channel":         s.Channel != nil,
	}

	pairs := []Conflict{
		{"auto_connect", "isolated"},
		{"auto_connect", "executable_path"},
		{"browser_url", "ws_endpoint"},
		{"executable_path", "browser_url"},
		{"executable_path", "ws_endpoint"},
		{"user_data_dir", "browser_url"},
		{"user_data_dir", "ws_endpoint"},
		{"user_data_dir", "isolated"},
		{"channel", "browser_url"},
		{"channel", "ws_endpoint"},
		{"channel", "executable_path"},
	}

	var out []Conflict
	for _, p := range pairs {
		if set[p.A] && set[p.B] {
			out = append(out, p)
		}
	}
	if s.WSHeaders != nil && !set["ws_endpoint"] {
		out = append(out, Conflict{"ws_headers", "missing ws_endpoint"})
	}
	return out
}

func nonEmpty(p *string) bool {
	_, ok := Text(p)
	return ok
}
