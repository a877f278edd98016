package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-resultview/internal/dateutil"
	"github.com/alnah/go-resultview/internal/fileutil"
	"github.com/alnah/go-resultview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 256  // API endpoint paths
	MaxTitleLength    = 200  // Page title
	MaxDateLength     = 60   // "auto", "auto:DD/MM/YYYY" or literal
	MaxNameLength     = 100  // Style, engine names
	MaxAddrLength     = 256  // host:port
	MaxFilePathLength = 4096 // Token file, directories
)

// Rate limit bounds in requests per second.
const (
	MaxRateLimit = 100.0
	MaxBurst     = 100
)

// Config holds all configuration for rendering and talking to the search API.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Assets AssetsConfig `yaml:"assets"`
}

// APIConfig defines the remote search API location and client behavior.
type APIConfig struct {
	BaseURL     string  `yaml:"baseURL"`     // e.g. "https://search.example.org"
	SearchPath  string  `yaml:"searchPath"`  // default "/api/search"
	HealthPath  string  `yaml:"healthPath"`  // default "/api/health"
	TokenPath   string  `yaml:"tokenPath"`   // default "/api/token/"
	RefreshPath string  `yaml:"refreshPath"` // default "/api/token/refresh/"
	Timeout     string  `yaml:"timeout"`     // Go duration, default "30s"
	RateLimit   float64 `yaml:"rateLimit"`   // requests per second, 0 = unlimited
	Burst       int     `yaml:"burst"`       // default 1
}

// RenderConfig defines how results are turned into pages.
type RenderConfig struct {
	Engine string `yaml:"engine"` // "subset" (default) or "goldmark"
	Style  string `yaml:"style"`  // Name of an embedded or asset-path style (empty = "default")
	Title  string `yaml:"title"`  // Page title (empty = derived from search term)
	Date   string `yaml:"date"`   // "auto", "auto:FORMAT" or literal (empty = omitted)
	Mode   string `yaml:"mode"`   // Default mode: "overview" or "emails"
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // One of OutputFormats (empty = "html")
}

// ServerConfig defines the HTTP front-end.
type ServerConfig struct {
	Addr        string `yaml:"addr"`        // default ":8080"
	ReadTimeout string `yaml:"readTimeout"` // Go duration, default "10s"
}

// AuthConfig defines where session tokens are stored.
type AuthConfig struct {
	TokenFile string `yaml:"tokenFile"` // Empty = ~/.config/go-resultview/tokens.yaml
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// RequestTimeout returns the parsed API timeout, or the default if unset.
func (a APIConfig) RequestTimeout() time.Duration {
	return parseDurationOr(a.Timeout, DefaultTimeout)
}

// ReadTimeoutDuration returns the parsed read timeout, or the default if unset.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDurationOr(s.ReadTimeout, DefaultReadTimeout)
}

// Validate checks field lengths, enum values and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}

	// Validate output fields
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxFilePathLength); err != nil {
		return err
	}
	if err := validateEnum("output.format", c.Output.Format, OutputFormats...); err != nil {
		return err
	}

	// Validate server fields
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateDuration("server.readTimeout", c.Server.ReadTimeout); err != nil {
		return err
	}

	// Validate auth and assets fields
	if err := validateFieldLength("auth.tokenFile", c.Auth.TokenFile, MaxFilePathLength); err != nil {
		return err
	}
	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxFilePathLength)
}

func (c *Config) validateAPI() error {
	if err := validateFieldLength("api.baseURL", c.API.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: api.baseURL: must be an absolute http(s) URL, got %q", ErrInvalidValue, c.API.BaseURL)
		}
	}

	paths := []struct{ name, value string }{
		{"api.searchPath", c.API.SearchPath},
		{"api.healthPath", c.API.HealthPath},
		{"api.tokenPath", c.API.TokenPath},
		{"api.refreshPath", c.API.RefreshPath},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateDuration("api.timeout", c.API.Timeout); err != nil {
		return err
	}
	if c.API.RateLimit < 0 || c.API.RateLimit > MaxRateLimit {
		return fmt.Errorf("%w: api.rateLimit: must be between 0 and %.0f, got %.2f", ErrInvalidValue, MaxRateLimit, c.API.RateLimit)
	}
	if c.API.Burst < 0 || c.API.Burst > MaxBurst {
		return fmt.Errorf("%w: api.burst: must be between 0 and %d, got %d", ErrInvalidValue, MaxBurst, c.API.Burst)
	}
	return nil
}

func (c *Config) validateRender() error {
	if err := validateEnum("render.engine", c.Render.Engine, "subset", "goldmark"); err != nil {
		return err
	}
	if err := validateEnum("render.mode", c.Render.Mode, "overview", "emails"); err != nil {
		return err
	}
	if err := validateFieldLength("render.style", c.Render.Style, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.title", c.Render.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.date", c.Render.Date, MaxDateLength); err != nil {
		return err
	}
	if err := dateutil.Validate(c.Render.Date); err != nil {
		return fmt.Errorf("%w: render.date: %v", ErrInvalidValue, err)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed, case-insensitively.
func validateEnum(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// validateDuration accepts an empty value or a positive Go duration.
func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: %s: %q (must be a positive duration such as 30s)", ErrInvalidValue, fieldName, value)
	}
	return nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// OutputFormats lists the accepted output.format values.
var OutputFormats = []string{"html", "fragment", "text", "pdf"}

// Default values applied by DefaultConfig.
const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultSearchPath  = "/api/search"
	DefaultHealthPath  = "/api/health"
	DefaultTokenPath   = "/api/token/"
	DefaultRefreshPath = "/api/token/refresh/"
	DefaultAddr        = ":8080"

	DefaultTimeout     = 30 * time.Second
	DefaultReadTimeout = 10 * time.Second
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			SearchPath:  DefaultSearchPath,
			HealthPath:  DefaultHealthPath,
			TokenPath:   DefaultTokenPath,
			RefreshPath: DefaultRefreshPath,
			Timeout:     DefaultTimeout.String(),
			RateLimit:   2,
			Burst:       1,
		},
		Render: RenderConfig{Engine: "subset", Style: "default", Mode: "overview"},
		Output: OutputConfig{Format: "html"},
		Server: ServerConfig{Addr: DefaultAddr, ReadTimeout: DefaultReadTimeout.String()},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UserConfigDir returns ~/.config/go-resultview (or the platform equivalent).
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-resultview"), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-resultview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
