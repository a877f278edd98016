package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-resultview/internal/config"
)

// envPrefix marks variables read by the CLI.
const envPrefix = "RESULTVIEW_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // RESULTVIEW_CONFIG: config file name or path
	APIURL     string        // RESULTVIEW_API_URL: search API base URL
	Timeout    time.Duration // RESULTVIEW_TIMEOUT: API and PDF timeout

	// Tier 2 - Identity and I/O
	Email     string // RESULTVIEW_EMAIL: contact email sent with searches
	TokenFile string // RESULTVIEW_TOKEN_FILE: session token file
	OutputDir string // RESULTVIEW_OUTPUT_DIR: default output directory

	// Tier 3 - Extended
	Style   string // RESULTVIEW_STYLE: CSS style name or path
	Engine  string // RESULTVIEW_ENGINE: subset or goldmark
	Addr    string // RESULTVIEW_ADDR: serve listen address
	Workers int    // RESULTVIEW_WORKERS: parallel workers
}

// knownEnvVars lists valid RESULTVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"RESULTVIEW_CONFIG":  true,
	"RESULTVIEW_API_URL": true,
	"RESULTVIEW_TIMEOUT": true,
	// Tier 2 - Identity and I/O
	"RESULTVIEW_EMAIL":      true,
	"RESULTVIEW_TOKEN_FILE": true,
	"RESULTVIEW_OUTPUT_DIR": true,
	// Tier 3 - Extended
	"RESULTVIEW_STYLE":   true,
	"RESULTVIEW_ENGINE":  true,
	"RESULTVIEW_ADDR":    true,
	"RESULTVIEW_WORKERS": true,
	// Read by doctor
	"RESULTVIEW_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized RESULTVIEW_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("RESULTVIEW_CONFIG"),
		APIURL:     os.Getenv("RESULTVIEW_API_URL"),
		Email:      os.Getenv("RESULTVIEW_EMAIL"),
		TokenFile:  os.Getenv("RESULTVIEW_TOKEN_FILE"),
		OutputDir:  os.Getenv("RESULTVIEW_OUTPUT_DIR"),
		Style:      os.Getenv("RESULTVIEW_STYLE"),
		Engine:     os.Getenv("RESULTVIEW_ENGINE"),
		Addr:       os.Getenv("RESULTVIEW_ADDR"),
	}

	// Invalid durations and counts are ignored, like unset ones
	if timeout := os.Getenv("RESULTVIEW_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("RESULTVIEW_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized RESULTVIEW_* variables.
// Helps catch typos like RESULTVIEW_APIURL instead of RESULTVIEW_API_URL.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Env values override the file; CLI flags are applied afterwards.
// Precedence: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.APIURL != "" {
		cfg.API.BaseURL = env.APIURL
	}
	if env.Timeout > 0 {
		cfg.API.Timeout = env.Timeout.String()
	}
	if env.TokenFile != "" {
		cfg.Auth.TokenFile = env.TokenFile
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Style != "" {
		cfg.Render.Style = env.Style
	}
	if env.Engine != "" {
		cfg.Render.Engine = env.Engine
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
}
