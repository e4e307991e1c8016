package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runger/casts/internal/dataview"
)

// Config represents the casts configuration.
type Config struct {
	List    ListConfig    `yaml:"list"`
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// ListConfig holds the tuning of the virtualized lists.
type ListConfig struct {
	PageSize      int `yaml:"page_size"`      // Items per page of the episode list
	LoadMargins   int `yaml:"load_margins"`   // Rows prefetched beyond each window edge
	ScrollMargins int `yaml:"scroll_margins"` // Rows kept between cursor and window edge
}

// LibraryConfig holds library database settings.
type LibraryConfig struct {
	DatabasePath   string `yaml:"database_path"`    // SQLite file (overrides default)
	FetchTimeoutMs int    `yaml:"fetch_timeout_ms"` // Per-request query timeout
}

// LoggingConfig holds log file settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	File       string `yaml:"file"`        // Log file path (overrides default)
	MaxSizeMB  int    `yaml:"max_size_mb"` // Rotate after this many megabytes
	MaxBackups int    `yaml:"max_backups"` // Rotated files to keep
}

// UIConfig holds display settings.
type UIConfig struct {
	FeedsPaneWidth int    `yaml:"feeds_pane_width"` // Columns of the feeds pane
	Placeholder    string `yaml:"placeholder"`      // Text of rows still loading
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	opts := dataview.DefaultOptions()
	return &Config{
		List: ListConfig{
			PageSize:      opts.PageSize,
			LoadMargins:   opts.LoadMargins,
			ScrollMargins: opts.ScrollMargins,
		},
		Library: LibraryConfig{
			DatabasePath:   "", // Use default from paths
			FetchTimeoutMs: 500,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "", // Use default from paths
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		UI: UIConfig{
			FeedsPaneWidth: 32,
			Placeholder:    " . . . ",
		},
	}
}

// ListOptions returns the list settings as dataview options.
func (c *Config) ListOptions() dataview.Options {
	return dataview.Options{
		PageSize:      c.List.PageSize,
		LoadMargins:   c.List.LoadMargins,
		ScrollMargins: c.List.ScrollMargins,
	}
}

// FetchTimeout returns the library query timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Library.FetchTimeoutMs) * time.Millisecond
}

// DatabaseFile returns the configured database path, falling back to the
// default location.
func (c *Config) DatabaseFile(paths *Paths) string {
	if c.Library.DatabasePath != "" {
		return c.Library.DatabasePath
	}
	return paths.DatabaseFile()
}

// LogFile returns the configured log path, falling back to the default
// location.
func (c *Config) LogFile(paths *Paths) string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return paths.LogFile()
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "list.page_size" or "ui.placeholder"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "list":
		return c.getListField(field)
	case "library":
		return c.getLibraryField(field)
	case "logging":
		return c.getLoggingField(field)
	case "ui":
		return c.getUIField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "list":
		return c.setListField(field, value)
	case "library":
		return c.setLibraryField(field, value)
	case "logging":
		return c.setLoggingField(field, value)
	case "ui":
		return c.setUIField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

// parseInt parses a config integer that must be at least minimum.
// MaxPageSize is the largest list.page_size accepted. It matches the most
// episodes the library returns for one page query.
const MaxPageSize = 1000

func parseInt(field, value string, minimum int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v < minimum {
		return 0, fmt.Errorf("invalid %s: must be >= %d", field, minimum)
	}
	return v, nil
}

func (c *Config) getListField(field string) (string, error) {
	switch field {
	case "page_size":
		return strconv.Itoa(c.List.PageSize), nil
	case "load_margins":
		return strconv.Itoa(c.List.LoadMargins), nil
	case "scroll_margins":
		return strconv.Itoa(c.List.ScrollMargins), nil
	default:
		return "", fmt.Errorf("unknown field: list.%s", field)
	}
}

func (c *Config) setListField(field, value string) error {
	switch field {
	case "page_size":
		v, err := parseInt(field, value, 1)
		if err != nil {
			return err
		}
		if v > MaxPageSize {
			return fmt.Errorf("invalid %s: must be <= %d", field, MaxPageSize)
		}
		c.List.PageSize = v
	case "load_margins":
		v, err := parseInt(field, value, 0)
		if err != nil {
			return err
		}
		c.List.LoadMargins = v
	case "scroll_margins":
		v, err := parseInt(field, value, 0)
		if err != nil {
			return err
		}
		c.List.ScrollMargins = v
	default:
		return fmt.Errorf("unknown field: list.%s", field)
	}
	return nil
}

func (c *Config) getLibraryField(field string) (string, error) {
	switch field {
	case "database_path":
		return c.Library.DatabasePath, nil
	case "fetch_timeout_ms":
		return strconv.Itoa(c.Library.FetchTimeoutMs), nil
	default:
		return "", fmt.Errorf("unknown field: library.%s", field)
	}
}

func (c *Config) setLibraryField(field, value string) error {
	switch field {
	case "database_path":
		c.Library.DatabasePath = value
	case "fetch_timeout_ms":
		v, err := parseInt(field, value, 1)
		if err != nil {
			return err
		}
		c.Library.FetchTimeoutMs = v
	default:
		return fmt.Errorf("unknown field: library.%s", field)
	}
	return nil
}

func (c *Config) getLoggingField(field string) (string, error) {
	switch field {
	case "level":
		return c.Logging.Level, nil
	case "file":
		return c.Logging.File, nil
	case "max_size_mb":
		return strconv.Itoa(c.Logging.MaxSizeMB), nil
	case "max_backups":
		return strconv.Itoa(c.Logging.MaxBackups), nil
	default:
		return "", fmt.Errorf("unknown field: logging.%s", field)
	}
}

func (c *Config) setLoggingField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Logging.Level = value
	case "file":
		c.Logging.File = value
	case "max_size_mb":
		v, err := parseInt(field, value, 1)
		if err != nil {
			return err
		}
		c.Logging.MaxSizeMB = v
	case "max_backups":
		v, err := parseInt(field, value, 0)
		if err != nil {
			return err
		}
		c.Logging.MaxBackups = v
	default:
		return fmt.Errorf("unknown field: logging.%s", field)
	}
	return nil
}

func (c *Config) getUIField(field string) (string, error) {
	switch field {
	case "feeds_pane_width":
		return strconv.Itoa(c.UI.FeedsPaneWidth), nil
	case "placeholder":
		return c.UI.Placeholder, nil
	default:
		return "", fmt.Errorf("unknown field: ui.%s", field)
	}
}

func (c *Config) setUIField(field, value string) error {
	switch field {
	case "feeds_pane_width":
		v, err := parseInt(field, value, minPaneWidth)
		if err != nil {
			return err
		}
		c.UI.FeedsPaneWidth = v
	case "placeholder":
		c.UI.Placeholder = value
	default:
		return fmt.Errorf("unknown field: ui.%s", field)
	}
	return nil
}

const minPaneWidth = 8

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.List.PageSize < 1 || c.List.PageSize > MaxPageSize {
		return fmt.Errorf("list.page_size must be between 1 and %d (got: %d)", MaxPageSize, c.List.PageSize)
	}

	if c.List.LoadMargins < 0 {
		return errors.New("list.load_margins must be >= 0")
	}

	if c.List.ScrollMargins < 0 {
		return errors.New("list.scroll_margins must be >= 0")
	}

	if c.Library.FetchTimeoutMs < 1 {
		return errors.New("library.fetch_timeout_ms must be >= 1")
	}

	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got: %s)", c.Logging.Level)
	}

	if c.Logging.MaxSizeMB < 1 {
		return errors.New("logging.max_size_mb must be >= 1")
	}

	if c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_backups must be >= 0")
	}

	// Clamp the pane width instead of refusing to start
	if c.UI.FeedsPaneWidth < minPaneWidth {
		c.UI.FeedsPaneWidth = minPaneWidth
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CASTS_DB"); v != "" {
		c.Library.DatabasePath = v
	}
	if v := os.Getenv("CASTS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Logging.Level = "debug"
		}
	}
	if v := os.Getenv("CASTS_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Logging.Level = v
		}
	}
	if v := os.Getenv("CASTS_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxPageSize {
			c.List.PageSize = n
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"list.page_size",
		"list.load_margins",
		"list.scroll_margins",
		"library.database_path",
		"library.fetch_timeout_ms",
		"logging.level",
		"logging.file",
		"logging.max_size_mb",
		"logging.max_backups",
		"ui.feeds_pane_width",
		"ui.placeholder",
	}
}
