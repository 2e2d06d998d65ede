// Package config handles user configuration for lawchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	configDirName = ".lawchat"
	configFile    = "config.json"
	envFile       = "lawchat.env"
	logFileName   = "lawchat.log"

	// HomeEnv relocates the configuration directory
	HomeEnv = "LAWCHAT_HOME"

	envTheme    = "LAWCHAT_THEME"
	envLogLevel = "LAWCHAT_LOG_LEVEL"
	envLogFile  = "LAWCHAT_LOG_FILE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration. The Answer Service endpoint is
// deliberately absent: it is fixed per build.
type Config struct {
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown"`
	LogLevel        string         `json:"log_level"`
	LogFile         string         `json:"log_file,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	// RequestTimeout is the transport timeout in seconds
	RequestTimeout int `json:"request_timeout"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
		LogLevel:        "info",
		CopyToClipboard: false,
		RequestTimeout:  300,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, configDirName), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// GetEnvPath returns the path to the optional env override file
func GetEnvPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, envFile), nil
}

// GetLogPath returns the log file path, falling back to the config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, logFileName), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads lawchat.env from the config directory into the process
// environment. Variables already set are not overridden. A missing file is
// not an error.
func LoadEnv() error {
	envPath, err := GetEnvPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	return nil
}

// ApplyEnv overrides config values with LAWCHAT_* environment variables
func ApplyEnv(cfg Config) Config {
	if theme := os.Getenv(envTheme); theme != "" {
		cfg.TUITheme = theme
	}
	if level := os.Getenv(envLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if file := os.Getenv(envLogFile); file != "" {
		cfg.LogFile = file
	}
	return cfg
}

// Load reads the config file, the env file and the environment, in that
// order of increasing precedence.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if envErr := LoadEnv(); envErr != nil && err == nil {
		err = envErr
	}
	return ApplyEnv(cfg), err
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, configFile)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps user-facing keys to config mutations
var setters = map[string]func(*Config, string) error{
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"markdown.enable_emoji": func(c *Config, v string) error {
		return setBool(&c.Markdown.EnableEmoji, v)
	},
	"markdown.preserve_newlines": func(c *Config, v string) error {
		return setBool(&c.Markdown.PreserveNewLines, v)
	},
	"log_level": func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	},
	"log_file": func(c *Config, v string) error {
		c.LogFile = v
		return nil
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		return setBool(&c.CopyToClipboard, v)
	},
	"request_timeout": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("request_timeout must be a positive number of seconds, got %q", v)
		}
		c.RequestTimeout = n
		return nil
	},
}

// Keys returns the settable configuration keys, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates a single configuration key from its string form
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", v)
	}
	*dst = b
	return nil
}
