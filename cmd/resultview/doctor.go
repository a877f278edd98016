package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-resultview/internal/assets"
	"github.com/alnah/go-resultview/internal/auth"
	"github.com/alnah/go-resultview/internal/config"
)

// doctorAPITimeout bounds the API health probe.
const doctorAPITimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Assets   assetsInfo  `json:"assets"`
	API      apiInfo     `json:"api"`
	Session  sessionInfo `json:"session"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// assetsInfo holds style resolution results.
type assetsInfo struct {
	Custom bool   `json:"custom"`
	Dir    string `json:"dir,omitempty"`
	Style  string `json:"style"`
	Loaded bool   `json:"loaded"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// apiInfo holds the search API probe result.
type apiInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Status    string `json:"status,omitempty"`
	Version   string `json:"version,omitempty"`
}

// sessionInfo describes the stored login.
type sessionInfo struct {
	TokenFile     string     `json:"token_file"`
	LoggedIn      bool       `json:"logged_in"`
	Username      string     `json:"username,omitempty"`
	AccessExpires *time.Time `json:"access_expires,omitempty"`
	Refreshable   bool       `json:"refreshable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var (
		jsonOutput bool
		configName string
	)
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&jsonOutput, "json", false, "JSON output")
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	fs.SetOutput(env.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	cfg, err := loadConfig(commonFlags{config: configName}, loadEnvConfig())
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg, env.Now())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, now time.Time) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)
	checkAssets(result, cfg)
	checkAPI(ctx, result, cfg)
	checkSession(result, cfg, now)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium. Only PDF output needs it, so a
// missing browser is a warning.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; PDF output unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer returns whether a container was detected and which signal
// detected it.
func isContainer() (bool, string) {
	if os.Getenv(envPrefix+"CONTAINER") == "1" {
		return true, envPrefix + "CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable.
func checkSystem(result *doctorResult) {
	f, err := os.CreateTemp("", "resultview-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// checkAssets loads the configured style through the same resolver the
// renderer uses.
func checkAssets(result *doctorResult, cfg *config.Config) {
	name := cfg.Render.Style
	if name == "" {
		name = assets.DefaultStyleName
	}
	result.Assets.Style = name

	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset directory unusable: %v", err))
		return
	}
	if resolver.HasCustomLoader() {
		result.Assets.Custom = true
		result.Assets.Dir = cfg.Assets.BasePath
	}
	if _, err := resolver.LoadStyle(name); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Style %q not loadable: %v", name, err))
		return
	}
	result.Assets.Loaded = true
}

// checkAPI probes the health endpoint. Rendering saved results works
// offline, so an unreachable API is a warning.
func checkAPI(ctx context.Context, result *doctorResult, cfg *config.Config) {
	result.API.URL = cfg.API.BaseURL

	client, err := newSearchClient(cfg, nil, zap.NewNop())
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid API URL: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, doctorAPITimeout)
	defer cancel()

	hs, err := client.Health(ctx)
	if hs != nil {
		result.API.Status = hs.Status
		result.API.Version = hs.Version
	}
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Search API not ready: %v", err))
		return
	}
	result.API.Reachable = true
}

// checkSession reports on the stored token pair.
func checkSession(result *doctorResult, cfg *config.Config, now time.Time) {
	store, err := tokenStore(cfg)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return
	}
	result.Session.TokenFile = store.Path()

	pair, err := store.Tokens()
	if errors.Is(err, auth.ErrNoSession) {
		result.Warnings = append(result.Warnings, "Not logged in. Run 'resultview login'")
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Token file unreadable: %v", err))
		return
	}

	result.Session.LoggedIn = true
	result.Session.Username = pair.Username
	if exp, ok := auth.ExpiresAt(pair.Access); ok && !exp.IsZero() {
		result.Session.AccessExpires = &exp
	}
	result.Session.Refreshable = pair.Refresh != "" && !auth.Expired(pair.Refresh, now)

	if auth.Expired(pair.Access, now) && !result.Session.Refreshable {
		result.Warnings = append(result.Warnings, "Session expired. Run 'resultview login'")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "resultview doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found (PDF output unavailable)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Styles")
	if r.Assets.Custom {
		fmt.Fprintf(w, "  [OK] Custom directory: %s\n", r.Assets.Dir)
	}
	if r.Assets.Loaded {
		fmt.Fprintf(w, "  [OK] Style: %s\n", r.Assets.Style)
	} else {
		fmt.Fprintf(w, "  [ERROR] Style: %s not loadable\n", r.Assets.Style)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Search API")
	if r.API.Reachable {
		fmt.Fprintf(w, "  [OK] %s (%s)\n", r.API.URL, r.API.Status)
		if r.API.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.API.Version)
		}
	} else {
		fmt.Fprintf(w, "  [WARN] %s not ready\n", r.API.URL)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Session")
	switch {
	case !r.Session.LoggedIn:
		fmt.Fprintln(w, "  [WARN] Not logged in")
	case r.Session.Username != "":
		fmt.Fprintf(w, "  [OK] Logged in as %s\n", r.Session.Username)
	default:
		fmt.Fprintln(w, "  [OK] Logged in")
	}
	if r.Session.AccessExpires != nil {
		fmt.Fprintf(w, "  [OK] Access token expires %s\n", r.Session.AccessExpires.Format(time.RFC3339))
	}
	if r.Session.TokenFile != "" {
		fmt.Fprintf(w, "  [OK] Token file: %s\n", filepath.Clean(r.Session.TokenFile))
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
