// Package config loads skillfeed settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// Environment variables.
const (
	EnvConfig  = "SKILLFEED_CONFIG"
	EnvBaseURL = "SKILLFEED_BASE_URL"
	EnvSession = "SKILLFEED_SESSION"
	EnvTimeout = "SKILLFEED_TIMEOUT"
	EnvKind    = "SKILLFEED_KIND"
	EnvLog     = "SKILLFEED_LOG"
	EnvLevel   = "SKILLFEED_LOG_LEVEL"
	EnvToken   = "SKILLFEED_TOKEN_FILE"
)

// DefaultBaseURL is the backend's local development address.
const DefaultBaseURL = "http://localhost:8080/api"

// Config holds application-level configuration.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	SessionPath string        `yaml:"session"`    // JSON session file (user + token)
	Timeout     time.Duration `yaml:"timeout"`    // per request
	Kind        domain.Kind   `yaml:"kind"`       // initial tab
	TokenPath   string        `yaml:"token_file"` // bearer token file; overrides the session token
	LogPath     string        `yaml:"log_file"`   // empty disables logging
	LogLevel    string        `yaml:"log_level"`
	StatePath   string        `yaml:"ui_state"` // persisted UI state
}

// Defaults returns the built-in configuration.
func Defaults() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseURL:     DefaultBaseURL,
		SessionPath: filepath.Join(dir, "session.json"),
		Timeout:     60 * time.Second,
		Kind:        domain.KindPost,
		StatePath:   filepath.Join(dir, "ui_state.json"),
	}, nil
}

// Dir is the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, "skillfeed"), nil
}

// Load builds the configuration. path names a YAML file; when empty,
// SKILLFEED_CONFIG is used, and when that is empty too no file is read.
// A .env file in the working directory is loaded first without overriding
// variables that are already set.
//
//	SKILLFEED_BASE_URL  API base URL, http(s) (default: http://localhost:8080/api)
//	SKILLFEED_SESSION   session file path
//	SKILLFEED_TIMEOUT   request timeout, e.g. "30s"
//	SKILLFEED_KIND      initial content kind: post, progress or plan
//	SKILLFEED_TOKEN_FILE  bearer token file, instead of the session's token
//	SKILLFEED_LOG       log file path
//	SKILLFEED_LOG_LEVEL debug, info, warn or error
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.overlay(file)
	return nil
}

func (c *Config) mergeEnv() error {
	env := Config{
		BaseURL:     os.Getenv(EnvBaseURL),
		SessionPath: os.Getenv(EnvSession),
		Kind:        domain.Kind(os.Getenv(EnvKind)),
		TokenPath:   os.Getenv(EnvToken),
		LogPath:     os.Getenv(EnvLog),
		LogLevel:    os.Getenv(EnvLevel),
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		env.Timeout = d
	}
	c.overlay(env)
	return nil
}

// overlay copies every non-zero field of o onto c.
func (c *Config) overlay(o Config) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.SessionPath != "" {
		c.SessionPath = expandHome(o.SessionPath)
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.Kind != "" {
		c.Kind = o.Kind
	}
	if o.TokenPath != "" {
		c.TokenPath = expandHome(o.TokenPath)
	}
	if o.LogPath != "" {
		c.LogPath = expandHome(o.LogPath)
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.StatePath != "" {
		c.StatePath = expandHome(o.StatePath)
	}
}

// Validate normalizes the base URL and kind and rejects bad values.
func (c *Config) Validate() error {
	parsed, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute URL", c.BaseURL)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("invalid base URL %q: only http and https are allowed", c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(parsed.String(), "/")

	kind, ok := domain.ParseKind(string(c.Kind))
	if !ok {
		return fmt.Errorf("invalid kind %q: want post, progress or plan", c.Kind)
	}
	c.Kind = kind

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// UIState is what the TUI remembers between runs.
type UIState struct {
	Kind       string `json:"kind,omitempty"`
	ShowDetail bool   `json:"showDetail,omitempty"`
}

// LoadUIState reads the state file. A missing file is the zero state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return UIState{}, nil
	}
	if err != nil {
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes the state file, creating its directory.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
