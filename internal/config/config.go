package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/errors"
	"github.com/Aman-CERP/objsearch/internal/logging"
	"github.com/Aman-CERP/objsearch/internal/store"
)

// ProjectFile is the per-directory configuration file name.
const ProjectFile = ".objsearch.yaml"

// Config represents the complete objsearch configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Index   IndexConfig  `yaml:"index" json:"index"`
	Search  SearchConfig `yaml:"search" json:"search"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
	Log     LogConfig    `yaml:"log" json:"log"`
}

// IndexConfig configures how objects become documents.
type IndexConfig struct {
	// Analyzer is the text analyzer: "standard" or "code".
	Analyzer string `yaml:"analyzer" json:"analyzer"`

	// ContentFormat renders objects for the content field: "json" or "yaml".
	ContentFormat string `yaml:"content_format" json:"content_format"`
}

// SearchConfig configures query execution.
type SearchConfig struct {
	// MaxResults is the CLI's default hit limit. Zero means unlimited.
	MaxResults int `yaml:"max_results" json:"max_results"`

	// QueryCacheSize is the number of parsed queries kept per engine.
	QueryCacheSize int `yaml:"query_cache_size" json:"query_cache_size"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce coalesces bursts of file events (e.g. "200ms").
	Debounce string `yaml:"debounce" json:"debounce"`

	// Extensions lists the record file extensions to load.
	Extensions []string `yaml:"extensions" json:"extensions"`
}

// LogConfig configures file logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// MaxSizeMB rotates the log file once it grows past this size.
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb"`

	// MaxFiles is the number of rotated files to keep.
	MaxFiles int `yaml:"max_files" json:"max_files"`
}

// NewConfig returns a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Index: IndexConfig{
			Analyzer:      store.AnalyzerStandard,
			ContentFormat: content.FormatJSON,
		},
		Search: SearchConfig{
			MaxResults:     20,
			QueryCacheSize: 256,
		},
		Watch: WatchConfig{
			Debounce:   "200ms",
			Extensions: []string{".json", ".jsonl", ".yaml", ".yml", ".txt"},
		},
		Log: LogConfig{
			Level:     "warn",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/objsearch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/objsearch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "objsearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "objsearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "objsearch", "config.yaml")
}

// loadUserConfig returns nil config and nil error if the file doesn't exist.
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	var cfg Config
	if err := readYAML(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration for the given directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/objsearch/config.yaml)
//  3. Project config (.objsearch.yaml in dir)
//  4. Environment variables (OBJSEARCH_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := loadUserConfig()
	if err != nil {
		return nil, errors.ConfigError("failed to load user config: "+err.Error(), err)
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	projectPath := filepath.Join(dir, ProjectFile)
	if fileExists(projectPath) {
		var projectCfg Config
		if err := readYAML(projectPath, &projectCfg); err != nil {
			return nil, errors.ConfigError("failed to load project config: "+err.Error(), err)
		}
		cfg.mergeWith(&projectCfg)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration: "+err.Error(), err).
			WithSuggestion("Run 'objsearch config show' to inspect the merged configuration")
	}

	return cfg, nil
}

func readYAML(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Index.Analyzer != "" {
		c.Index.Analyzer = other.Index.Analyzer
	}
	if other.Index.ContentFormat != "" {
		c.Index.ContentFormat = other.Index.ContentFormat
	}

	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.QueryCacheSize != 0 {
		c.Search.QueryCacheSize = other.Search.QueryCacheSize
	}

	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Extensions) > 0 {
		c.Watch.Extensions = other.Watch.Extensions
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.MaxSizeMB != 0 {
		c.Log.MaxSizeMB = other.Log.MaxSizeMB
	}
	if other.Log.MaxFiles != 0 {
		c.Log.MaxFiles = other.Log.MaxFiles
	}
}

// applyEnvOverrides applies OBJSEARCH_* environment variable overrides.
// Unparseable numbers are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OBJSEARCH_ANALYZER"); v != "" {
		c.Index.Analyzer = v
	}
	if v := os.Getenv("OBJSEARCH_CONTENT_FORMAT"); v != "" {
		c.Index.ContentFormat = v
	}
	if v := os.Getenv("OBJSEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("OBJSEARCH_QUERY_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.QueryCacheSize = n
		}
	}
	if v := os.Getenv("OBJSEARCH_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
	if v := os.Getenv("OBJSEARCH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Index.Analyzer {
	case store.AnalyzerStandard, store.AnalyzerCode:
	default:
		return fmt.Errorf("index.analyzer must be '%s' or '%s', got %s",
			store.AnalyzerStandard, store.AnalyzerCode, c.Index.Analyzer)
	}

	if _, err := content.New(c.Index.ContentFormat); err != nil {
		return fmt.Errorf("index.content_format: %w", err)
	}

	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must be non-negative, got %d", c.Search.MaxResults)
	}
	if c.Search.QueryCacheSize < 0 {
		return fmt.Errorf("search.query_cache_size must be non-negative, got %d", c.Search.QueryCacheSize)
	}

	if _, err := c.DebounceDuration(); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxFiles < 0 {
		return fmt.Errorf("log.max_size_mb and log.max_files must be non-negative")
	}

	return nil
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce must be a duration such as 200ms, got %q", c.Watch.Debounce)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must be non-negative, got %s", d)
	}
	return d, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
