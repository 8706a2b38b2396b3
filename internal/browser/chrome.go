// Package browser checks that the Chrome the upstream server will use is
// reachable: an installed executable for the configured channel, a running
// instance at browser_url, or a WebSocket at ws_endpoint.
package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/neboloop/devtools-mcp/internal/settings"
)

// Executable is a Chrome binary found on this machine.
type Executable struct {
	Channel settings.Channel
	Path    string
}

// FindExecutable returns the Chrome binary upstream would launch. A custom
// path wins over channel discovery; an empty channel means stable.
func FindExecutable(customPath string, channel settings.Channel) (*Executable, error) {
	if customPath != "" {
		if !fileExists(customPath) {
			return nil, fmt.Errorf("browser executable not found: %s", customPath)
		}
		return &Executable{Channel: channel, Path: customPath}, nil
	}

	if channel == "" {
		channel = settings.ChannelStable
	}

	for _, path := range candidates(runtime.GOOS, channel) {
		if fileExists(path) {
			return &Executable{Channel: channel, Path: path}, nil
		}
	}
	return nil, fmt.Errorf("no Chrome %s installation found", channel)
}

// candidates lists the install locations of channel on goos, most common first.
func candidates(goos string, channel settings.Channel) []string {
	switch goos {
	case "darwin":
		app := map[settings.Channel]string{
			settings.ChannelStable: "Google Chrome",
			settings.ChannelBeta:   "Google Chrome Beta",
			settings.ChannelDev:    "Google Chrome Dev",
			settings.ChannelCanary: "Google Chrome Canary",
		}[channel]
		bin := filepath.Join(app+".app", "Contents", "MacOS", app)
		return []string{
			filepath.Join("/Applications", bin),
			filepath.Join(os.Getenv("HOME"), "Applications", bin),
		}

	case "linux":
		switch channel {
		case settings.ChannelBeta:
			return []string{"/usr/bin/google-chrome-beta", "/opt/google/chrome-beta/chrome"}
		case settings.ChannelDev:
			return []string{"/usr/bin/google-chrome-unstable", "/opt/google/chrome-unstable/chrome"}
		case settings.ChannelCanary:
			return []string{"/usr/bin/google-chrome-canary", "/opt/google/chrome-canary/chrome"}
		default:
			return []string{"/usr/bin/google-chrome", "/usr/bin/google-chrome-stable", "/opt/google/chrome/chrome"}
		}

	case "windows":
		dir := map[settings.Channel]string{
			settings.ChannelStable: "Chrome",
			settings.ChannelBeta:   "Chrome Beta",
			settings.ChannelDev:    "Chrome Dev",
			settings.ChannelCanary: "Chrome SxS",
		}[channel]
		programFiles := os.Getenv("ProgramFiles")
		if programFiles == "" {
			programFiles = "C:\\Program Files"
		}
		var out []string
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			out = append(out, filepath.Join(local, "Google", dir, "Application", "chrome.exe"))
		}
		return append(out, filepath.Join(programFiles, "Google", dir, "Application", "chrome.exe"))

	default:
		return nil
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
