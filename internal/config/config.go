// Package config handles the XDG configuration directory, environment
// settings and the stored session.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskctl"

	// SessionFile is the stored session cookies filename.
	SessionFile = "session.json"

	// EnvFile is the optional settings file inside the config directory.
	EnvFile = "config.env"

	// DefaultBaseURL is used when TASKCTL_URL is not set.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel keeps the CLI quiet unless something fails.
	DefaultLogLevel = "warn"
)

// Environment variable names.
const (
	EnvURL      = "TASKCTL_URL"
	EnvToken    = "TASKCTL_TOKEN"
	EnvTimeout  = "TASKCTL_TIMEOUT"
	EnvLogLevel = "TASKCTL_LOG_LEVEL"
)

var validate = validator.New()

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `validate:"required"`

	// BaseURL is the server root, e.g. https://tasks.example.com.
	BaseURL string `validate:"required,url"`

	// Token, when set, is sent as a bearer token instead of the session cookie.
	Token string

	// Timeout bounds each API call.
	Timeout time.Duration `validate:"gt=0"`

	// LogLevel is one of debug, info, warn, error. Unknown names fall back
	// to warn when the logger is built.
	LogLevel string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// NoColor disables terminal styling.
	NoColor bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskctl or $HOME/.config/taskctl.
// Settings come from the environment, a .env file in the working directory
// and config.env in the config directory, in that order of precedence.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(dir, EnvFile))

	cfg := &Config{
		Dir:      dir,
		BaseURL:  strings.TrimRight(getEnv(EnvURL, DefaultBaseURL), "/"),
		Token:    os.Getenv(EnvToken),
		Timeout:  DefaultTimeout,
		LogLevel: strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
