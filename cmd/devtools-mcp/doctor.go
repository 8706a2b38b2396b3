package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/browser"
	"github.com/neboloop/devtools-mcp/internal/launcher"
	"github.com/neboloop/devtools-mcp/internal/settings"
)

// DoctorCmd creates the doctor command for health checks
func DoctorCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check settings, runtime and browser and diagnose issues",
		Long: `Run diagnostics on the server setup.

Checks:
  - Settings files and their validity
  - Conflicting settings
  - Node.js runtime
  - npm package version and entrypoint
  - Browser reachability (browser_url, ws_endpoint or a local Chrome)

Examples:
  devtools-mcp doctor            # Run all diagnostics
  devtools-mcp doctor --offline  # Skip the registry and browser checks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), e, offline)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip checks that need the network or a browser")

	return cmd
}

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func ok(name, msg string) checkResult   { return checkResult{name, "ok", msg} }
func warn(name, msg string) checkResult { return checkResult{name, "warn", msg} }
func fail(name, msg string) checkResult { return checkResult{name, "error", msg} }

func runDoctor(ctx context.Context, out io.Writer, e *env, offline bool) error {
	fmt.Fprintln(out, "devtools-mcp doctor")
	fmt.Fprintln(out, "===================")
	fmt.Fprintln(out)

	s, results := checkSettings(e)
	results = append(results, checkRuntime(ctx, e)...)
	results = append(results, checkPackage(ctx, e, offline)...)
	if !offline {
		results = append(results, checkBrowser(ctx, s)...)
	}

	okCount, warnCount, errorCount := 0, 0, 0
	for _, r := range results {
		switch r.status {
		case "ok":
			fmt.Fprintf(out, "\033[32m✓\033[0m %s: %s\n", r.name, r.message)
			okCount++
		case "warn":
			fmt.Fprintf(out, "\033[33m⚠\033[0m %s: %s\n", r.name, r.message)
			warnCount++
		case "error":
			fmt.Fprintf(out, "\033[31m✗\033[0m %s: %s\n", r.name, r.message)
			errorCount++
		}
	}

	// Summary
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  \033[32m%d passed\033[0m", okCount)
	if warnCount > 0 {
		fmt.Fprintf(out, "  \033[33m%d warnings\033[0m", warnCount)
	}
	if errorCount > 0 {
		fmt.Fprintf(out, "  \033[31m%d errors\033[0m", errorCount)
	}
	fmt.Fprintln(out)

	if errorCount > 0 {
		return fmt.Errorf("doctor found %d errors", errorCount)
	}
	return nil
}

// checkSettings validates the settings the way the resolver reads them but
// reports problems instead of falling back silently.
func checkSettings(e *env) (settings.Settings, []checkResult) {
	var results []checkResult

	files := e.source.Files(e.project)
	if len(files) == 0 {
		results = append(results, warn("Settings Files", "none found, defaults apply"))
	} else {
		results = append(results, ok("Settings Files", strings.Join(files, ", ")))
	}

	raw, err := e.source.Lookup(serverID, e.project)
	if err != nil {
		return settings.Default(), append(results, fail("Settings", err.Error()+" (defaults will be used)"))
	}
	s, err := settings.Parse(raw)
	if err != nil {
		return settings.Default(), append(results, fail("Settings", err.Error()+" (defaults will be used)"))
	}
	if raw == nil {
		results = append(results, warn("Settings", fmt.Sprintf("no settings for %q", serverID)))
	} else {
		results = append(results, ok("Settings", fmt.Sprintf("settings for %q are valid", serverID)))
	}

	for _, c := range settings.Conflicts(s) {
		results = append(results, warn("Conflict", c.String()))
	}
	return s, results
}

func checkRuntime(ctx context.Context, e *env) []checkResult {
	node, err := e.npm.NodeBinary(ctx)
	if err != nil {
		return []checkResult{fail("Node.js", err.Error())}
	}
	return []checkResult{ok("Node.js", node)}
}

func checkPackage(ctx context.Context, e *env, offline bool) []checkResult {
	var results []checkResult

	installed, err := e.npm.InstalledVersion(ctx, launcher.PackageName)
	switch {
	case err != nil:
		results = append(results, fail("Package", err.Error()))
	case installed == "":
		results = append(results, warn("Package", launcher.PackageName+" not installed, it will be installed on launch"))
	default:
		results = append(results, ok("Package", launcher.PackageName+"@"+installed))
	}

	if !offline && !skipInstall {
		latest, err := e.npm.LatestVersion(ctx, launcher.PackageName)
		switch {
		case err != nil:
			results = append(results, warn("Registry", err.Error()))
		case installed != "" && latest != installed:
			results = append(results, warn("Registry", fmt.Sprintf("%s is available, it will be installed on launch", latest)))
		default:
			results = append(results, ok("Registry", "latest "+latest))
		}
	}

	if installed != "" {
		entry, err := e.launcher.EntrypointPath()
		if err == nil {
			_, err = os.Stat(entry)
		}
		if err != nil {
			results = append(results, fail("Entrypoint", "missing, package layout/version may differ; expected "+launcher.Entrypoint))
		} else {
			results = append(results, ok("Entrypoint", entry))
		}
	}

	return results
}

func checkBrowser(ctx context.Context, s settings.Settings) []checkResult {
	var results []checkResult
	for _, u := range []*string{s.BrowserURL, s.WSEndpoint} {
		if v, set := settings.Text(u); set && !browser.IsLoopback(v) {
			results = append(results, warn("Browser", v+" is not a loopback address"))
		}
	}
	return append(results, checkBrowserReachable(ctx, s)...)
}

func checkBrowserReachable(ctx context.Context, s settings.Settings) []checkResult {
	if endpoint, set := settings.Text(s.WSEndpoint); set {
		if err := browser.CheckWSEndpoint(ctx, endpoint, s.WSHeaders); err != nil {
			return []checkResult{fail("Browser", err.Error())}
		}
		return []checkResult{ok("Browser", "ws_endpoint "+endpoint+" accepted the connection")}
	}

	if url, set := settings.Text(s.BrowserURL); set {
		product, err := browser.CheckBrowserURL(ctx, url)
		if err != nil {
			return []checkResult{fail("Browser", err.Error())}
		}
		return []checkResult{ok("Browser", product+" at "+url)}
	}

	if settings.IsTrue(s.AutoConnect) {
		return []checkResult{ok("Browser", "auto_connect: the server attaches to a running Chrome")}
	}

	path, _ := settings.Text(s.ExecutablePath)
	var channel settings.Channel
	if s.Channel != nil {
		channel = *s.Channel
	}
	exe, err := browser.FindExecutable(path, channel)
	if err != nil {
		return []checkResult{fail("Browser", err.Error())}
	}
	return []checkResult{ok("Browser", fmt.Sprintf("Chrome %s at %s", exe.Channel, exe.Path))}
}
